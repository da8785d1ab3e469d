package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/database"
	"github.com/daehan-coding/grader-go-api/internal/dto"
	"github.com/daehan-coding/grader-go-api/internal/models"
	"github.com/daehan-coding/grader-go-api/internal/repository"
	"github.com/daehan-coding/grader-go-api/pkg/ai"
)

type recordingInvalidator struct {
	calls []uint
}

func (r *recordingInvalidator) InvalidateStudent(_ context.Context, studentID uint) {
	r.calls = append(r.calls, studentID)
}

type submissionFixture struct {
	db          *gorm.DB
	service     SubmissionService
	grader      *stubGrader
	invalidator *recordingInvalidator
	student     models.Student
	problem     models.Problem
}

func setupSubmissionTest(t *testing.T, cfg SubmissionConfig) submissionFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	student := models.Student{Grade: 1, ClassNo: 3, StudentNo: 1, Name: "Kim"}
	require.NoError(t, db.Create(&student).Error)

	problem := models.Problem{
		Title:       "Sum of two numbers",
		Description: "Read two integers and print their sum.",
		AnswerCode:  "print(sum(map(int, input().split())))",
		Rubric:      "Correct output earns full marks.",
		MaxScore:    10,
		IsOpen:      true,
	}
	require.NoError(t, db.Create(&problem).Error)

	grader := &stubGrader{result: ai.GradingResult{
		Score:    6,
		MaxScore: 10,
		Feedback: "fix indentation",
		Summary:  "logic correct, style needs work",
		Model:    "gpt-4o-mini",
	}}
	grading := NewGradingService(grader, GradingConfig{DefaultModel: "gpt-4o-mini"}, zerolog.Nop())
	invalidator := &recordingInvalidator{}

	svc := NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewProblemRepository(db),
		repository.NewStudentRepository(db),
		grading,
		invalidator,
		validator.New(),
		zerolog.Nop(),
		cfg,
	)

	return submissionFixture{
		db:          db,
		service:     svc,
		grader:      grader,
		invalidator: invalidator,
		student:     student,
		problem:     problem,
	}
}

func TestSubmitGradesAndRecordsAttempt(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{})

	resp, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{
		Code: "a, b = map(int, input().split())\nprint(a + b)",
	})
	require.NoError(t, err)
	require.Equal(t, 6.0, resp.Score)
	require.Equal(t, 10.0, resp.MaxScore)
	require.Equal(t, "fix indentation", resp.Feedback)
	require.Equal(t, 1, resp.AttemptNo)
	require.NotNil(t, resp.GptModel)
	require.Equal(t, "gpt-4o-mini", *resp.GptModel)
	require.Equal(t, "10301 Kim", fx.grader.last.StudentLabel)

	var stored models.Submission
	require.NoError(t, fx.db.First(&stored, resp.ID).Error)
	require.Equal(t, fx.student.ID, stored.StudentID)
	require.Equal(t, 1, stored.AttemptNo)

	require.Equal(t, []uint{fx.student.ID}, fx.invalidator.calls)
}

func TestSubmitAssignsSequentialAttemptNumbers(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{})

	for want := 1; want <= 3; want++ {
		resp, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{Code: "print(1)"})
		require.NoError(t, err)
		require.Equal(t, want, resp.AttemptNo)
	}
}

func TestSubmitRejectsWhenWindowExhausted(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{AttemptLimit: 2})

	for i := 0; i < 2; i++ {
		_, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{Code: "print(1)"})
		require.NoError(t, err)
	}

	_, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{Code: "print(1)"})
	require.ErrorIs(t, err, ErrRateLimited)

	var count int64
	require.NoError(t, fx.db.Model(&models.Submission{}).Count(&count).Error)
	require.Equal(t, int64(2), count, "a rejected attempt must not leave a row behind")
}

func TestSubmitNumbersAttemptsAcrossTheWindow(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{AttemptLimit: 1})

	// An attempt older than the 24h window: spent for numbering, not for the limit.
	old := models.Submission{
		StudentID: fx.student.ID,
		ProblemID: fx.problem.ID,
		Code:      "print(0)",
		Score:     2,
		MaxScore:  10,
		AttemptNo: 1,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	require.NoError(t, fx.db.Create(&old).Error)

	resp, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{Code: "print(1)"})
	require.NoError(t, err)
	require.Equal(t, 2, resp.AttemptNo, "attempt numbers continue across rate-limit windows")

	_, err = fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{Code: "print(2)"})
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestSubmitRecordsFallbackAttempt(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{})
	fx.grader.err = fmt.Errorf("oracle unavailable")

	resp, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{Code: "print(1)"})
	require.NoError(t, err, "a grading outage must not lose the attempt")
	require.Equal(t, 0.0, resp.Score)
	require.Equal(t, 10.0, resp.MaxScore)
	require.Equal(t, fallbackFeedback, resp.Feedback)
	require.NotNil(t, resp.GptModel)
	require.Equal(t, "gpt-4o-mini", *resp.GptModel)

	var count int64
	require.NoError(t, fx.db.Model(&models.Submission{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestSubmitRejectsClosedProblem(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{})
	require.NoError(t, fx.db.Model(&models.Problem{}).Where("id = ?", fx.problem.ID).Update("is_open", false).Error)

	_, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{Code: "print(1)"})
	require.ErrorIs(t, err, ErrProblemClosed)
}

func TestSubmitRejectsUnknownProblem(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{})

	_, err := fx.service.Submit(context.Background(), fx.student.ID, 999, dto.SubmissionCreateRequest{Code: "print(1)"})
	require.ErrorIs(t, err, ErrProblemNotFound)
}

func TestSubmitRejectsOversizedCode(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{MaxCodeBytes: 16})

	_, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{
		Code: "print('this source is longer than sixteen bytes')",
	})
	require.ErrorIs(t, err, ErrCodeTooLarge)
}

func TestSubmitRejectsEmptyCode(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{})

	_, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{})
	require.Error(t, err)
}

func TestGetEnforcesOwnership(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{})

	resp, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{Code: "print(1)"})
	require.NoError(t, err)

	_, err = fx.service.Get(context.Background(), resp.ID, fx.student.ID+1, "student")
	require.ErrorIs(t, err, ErrSubmissionForbidden)

	owned, err := fx.service.Get(context.Background(), resp.ID, fx.student.ID, "student")
	require.NoError(t, err)
	require.Equal(t, resp.ID, owned.ID)

	asAdmin, err := fx.service.Get(context.Background(), resp.ID, 0, "admin")
	require.NoError(t, err)
	require.Equal(t, resp.ID, asAdmin.ID)

	_, err = fx.service.Get(context.Background(), resp.ID+100, fx.student.ID, "student")
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestHistoryAggregatesPerProblem(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{})

	second := models.Problem{
		Title:       "Odd or even",
		Description: "Print odd or even.",
		AnswerCode:  "print('even' if int(input()) % 2 == 0 else 'odd')",
		Rubric:      "Correct output earns full marks.",
		MaxScore:    10,
		IsOpen:      true,
	}
	require.NoError(t, fx.db.Create(&second).Error)

	fx.grader.result.Score = 4
	_, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{Code: "print(1)"})
	require.NoError(t, err)

	fx.grader.result.Score = 9
	_, err = fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{Code: "print(2)"})
	require.NoError(t, err)

	fx.grader.result.Score = 10
	_, err = fx.service.Submit(context.Background(), fx.student.ID, second.ID, dto.SubmissionCreateRequest{Code: "print(3)"})
	require.NoError(t, err)

	rows, err := fx.service.History(context.Background(), fx.student.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, fx.problem.ID, rows[0].Problem.ID)
	require.Equal(t, int64(2), rows[0].Attempts)
	require.NotNil(t, rows[0].BestScore)
	require.Equal(t, 9.0, *rows[0].BestScore)

	require.Equal(t, second.ID, rows[1].Problem.ID)
	require.Equal(t, int64(1), rows[1].Attempts)
	require.NotNil(t, rows[1].BestScore)
	require.Equal(t, 10.0, *rows[1].BestScore)
}

func TestListAttemptsOrdersByAttemptNumber(t *testing.T) {
	fx := setupSubmissionTest(t, SubmissionConfig{})

	for i := 0; i < 3; i++ {
		_, err := fx.service.Submit(context.Background(), fx.student.ID, fx.problem.ID, dto.SubmissionCreateRequest{Code: "print(1)"})
		require.NoError(t, err)
	}

	attempts, err := fx.service.ListAttempts(context.Background(), fx.student.ID, fx.problem.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	for i, attempt := range attempts {
		require.Equal(t, i+1, attempt.AttemptNo)
	}
}
