package ai

import "context"

// GradingInput carries the artefacts needed to grade one submission. Model
// may name an oracle variant to use instead of the grader's default.
type GradingInput struct {
	ProblemTitle       string
	ProblemDescription string
	SampleInput        string
	SampleOutput       string
	AnswerCode         string
	Rubric             string
	MaxScore           float64
	StudentLabel       string
	Code               string
	Model              string
}

// GradingResult is the normalized outcome of one oracle call.
type GradingResult struct {
	Score    float64                `json:"score"`
	MaxScore float64                `json:"max_score"`
	Feedback string                 `json:"feedback"`
	Summary  string                 `json:"summary"`
	Model    string                 `json:"model"`
	Raw      map[string]interface{} `json:"raw,omitempty"`
}

// Grader describes an oracle capable of scoring a submission against a rubric.
type Grader interface {
	Grade(ctx context.Context, input GradingInput) (GradingResult, error)
}
