package models

import (
	"fmt"
	"time"
)

// Student represents a learner identified by the school triple grade/class/number.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Grade     int       `gorm:"not null;uniqueIndex:uq_student_triple" json:"grade"`
	ClassNo   int       `gorm:"not null;uniqueIndex:uq_student_triple" json:"class_no"`
	StudentNo int       `gorm:"not null;uniqueIndex:uq_student_triple" json:"student_no"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentCode renders the fixed-width 5-digit code, e.g. grade 1 class 3 no 1 -> "10301".
func (s Student) StudentCode() string {
	return fmt.Sprintf("%d%02d%02d", s.Grade, s.ClassNo, s.StudentNo)
}

// Label is the human-readable identity embedded in grading prompts.
func (s Student) Label() string {
	return fmt.Sprintf("%s %s", s.StudentCode(), s.Name)
}

// ParseStudentCode splits a 5-digit student code into its grade/class/number parts.
func ParseStudentCode(code string) (grade, classNo, studentNo int, err error) {
	if len(code) != 5 {
		return 0, 0, 0, fmt.Errorf("student code must be 5 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return 0, 0, 0, fmt.Errorf("student code must be numeric")
		}
	}
	grade = int(code[0] - '0')
	classNo = int(code[1]-'0')*10 + int(code[2]-'0')
	studentNo = int(code[3]-'0')*10 + int(code[4]-'0')
	return grade, classNo, studentNo, nil
}
