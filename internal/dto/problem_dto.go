package dto

import (
	"time"

	"github.com/daehan-coding/grader-go-api/internal/models"
)

// ProblemCreateRequest describes the payload for creating a problem.
type ProblemCreateRequest struct {
	Title        string  `json:"title" validate:"required,min=1,max=200"`
	Description  string  `json:"description" validate:"required"`
	SampleInput  string  `json:"sample_input"`
	SampleOutput string  `json:"sample_output"`
	AnswerCode   string  `json:"answer_code" validate:"required"`
	Rubric       string  `json:"rubric" validate:"required"`
	MaxScore     float64 `json:"max_score" validate:"omitempty,gt=0"`
	IsOpen       bool    `json:"is_open"`
}

// ProblemUpdateRequest describes the payload for editing a problem.
type ProblemUpdateRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string  `json:"description" validate:"omitempty,min=1"`
	SampleInput  *string  `json:"sample_input"`
	SampleOutput *string  `json:"sample_output"`
	AnswerCode   *string  `json:"answer_code" validate:"omitempty,min=1"`
	Rubric       *string  `json:"rubric" validate:"omitempty,min=1"`
	MaxScore     *float64 `json:"max_score" validate:"omitempty,gt=0"`
	IsOpen       *bool    `json:"is_open"`
}

// ProblemResponse is the student-facing view of a problem. The reference
// solution and rubric are never serialized to students.
type ProblemResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	SampleInput  string    `json:"sample_input"`
	SampleOutput string    `json:"sample_output"`
	MaxScore     float64   `json:"max_score"`
	IsOpen       bool      `json:"is_open"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminProblemResponse is the instructor-facing view, answer and rubric included.
type AdminProblemResponse struct {
	ProblemResponse
	AnswerCode string    `json:"answer_code"`
	Rubric     string    `json:"rubric"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Problem submission progress states as shown on the student problem list.
const (
	ProblemStatusNotSubmitted = "not_submitted"
	ProblemStatusInProgress   = "in_progress"
	ProblemStatusCompleted    = "completed"
)

// ProblemStatusResponse pairs a problem with the student's progress on it.
type ProblemStatusResponse struct {
	Problem   ProblemResponse `json:"problem"`
	Status    string          `json:"status"`
	Attempts  int64           `json:"attempts"`
	BestScore *float64        `json:"best_score"`
	LastTime  *time.Time      `json:"last_time"`
}

// NewProblemResponse maps a problem to its student-facing shape.
func NewProblemResponse(problem models.Problem) ProblemResponse {
	return ProblemResponse{
		ID:           problem.ID,
		Title:        problem.Title,
		Description:  problem.Description,
		SampleInput:  problem.SampleInput,
		SampleOutput: problem.SampleOutput,
		MaxScore:     problem.EffectiveMaxScore(),
		IsOpen:       problem.IsOpen,
		CreatedAt:    problem.CreatedAt,
	}
}

// NewAdminProblemResponse maps a problem to its instructor-facing shape.
func NewAdminProblemResponse(problem models.Problem) AdminProblemResponse {
	return AdminProblemResponse{
		ProblemResponse: NewProblemResponse(problem),
		AnswerCode:      problem.AnswerCode,
		Rubric:          problem.Rubric,
		UpdatedAt:       problem.UpdatedAt,
	}
}
