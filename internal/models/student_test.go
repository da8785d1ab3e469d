package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStudentCodeRoundTrip(t *testing.T) {
	student := Student{Grade: 1, ClassNo: 3, StudentNo: 1, Name: "김하늘"}
	require.Equal(t, "10301", student.StudentCode())
	require.Equal(t, "10301 김하늘", student.Label())

	grade, classNo, studentNo, err := ParseStudentCode("10301")
	require.NoError(t, err)
	require.Equal(t, 1, grade)
	require.Equal(t, 3, classNo)
	require.Equal(t, 1, studentNo)
}

func TestParseStudentCodeRejectsMalformedInput(t *testing.T) {
	for _, code := range []string{"", "103", "103011", "1030X", "abcde", "10 01"} {
		_, _, _, err := ParseStudentCode(code)
		require.Error(t, err, "code %q should be rejected", code)
	}
}

func TestParseStudentCodeHandlesTwoDigitParts(t *testing.T) {
	grade, classNo, studentNo, err := ParseStudentCode("31225")
	require.NoError(t, err)
	require.Equal(t, 3, grade)
	require.Equal(t, 12, classNo)
	require.Equal(t, 25, studentNo)
}

func TestEffectiveMaxScoreFallsBack(t *testing.T) {
	require.Equal(t, float64(DefaultMaxScore), Problem{}.EffectiveMaxScore())
	require.Equal(t, 20.0, Problem{MaxScore: 20}.EffectiveMaxScore())
}
