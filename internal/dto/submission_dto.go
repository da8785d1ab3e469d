package dto

import (
	"time"

	"github.com/daehan-coding/grader-go-api/internal/models"
)

// SubmissionCreateRequest is the payload for submitting code to a problem.
// Model optionally overrides the configured oracle model.
type SubmissionCreateRequest struct {
	Code  string `json:"code" validate:"required,min=1"`
	Model string `json:"model" validate:"omitempty,max=100"`
}

// SubmissionResponse is returned when viewing one graded attempt.
type SubmissionResponse struct {
	ID        uint      `json:"id"`
	ProblemID uint      `json:"problem_id"`
	StudentID uint      `json:"student_id"`
	Code      string    `json:"code"`
	Score     float64   `json:"score"`
	MaxScore  float64   `json:"max_score"`
	Feedback  string    `json:"feedback"`
	Summary   string    `json:"summary"`
	AttemptNo int       `json:"attempt_no"`
	GptModel  *string   `json:"gpt_model"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryRowResponse aggregates a student's attempts on one problem.
type HistoryRowResponse struct {
	Problem   ProblemResponse `json:"problem"`
	Attempts  int64           `json:"attempts"`
	BestScore *float64        `json:"best_score"`
	LastTime  *time.Time      `json:"last_time"`
}

// NewSubmissionResponse maps a submission to its API shape.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:        submission.ID,
		ProblemID: submission.ProblemID,
		StudentID: submission.StudentID,
		Code:      submission.Code,
		Score:     submission.Score,
		MaxScore:  submission.MaxScore,
		Feedback:  submission.Feedback,
		Summary:   submission.Summary,
		AttemptNo: submission.AttemptNo,
		GptModel:  submission.GptModel,
		CreatedAt: submission.CreatedAt,
	}
}

// NewSubmissionResponses maps a slice of submissions.
func NewSubmissionResponses(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
