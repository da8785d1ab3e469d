package service

import (
	"context"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/daehan-coding/grader-go-api/internal/models"
	"github.com/daehan-coding/grader-go-api/pkg/ai"
)

// Student-facing strings substituted when the oracle call or its parsing
// fails. Raw error text must never reach the feedback field.
const (
	fallbackFeedback = "Automatic grading failed. Please contact your teacher."
	fallbackSummary  = "Automatic grading error."
)

// GradingService invokes the grading oracle and always produces a
// well-formed result. Failures are logged for operators and converted into a
// fallback result; no error ever reaches the caller.
type GradingService interface {
	Grade(ctx context.Context, problem models.Problem, code, studentLabel, modelOverride string) (ai.GradingResult, bool)
}

// GradingConfig tunes oracle invocation.
type GradingConfig struct {
	DefaultModel string
	Timeout      time.Duration
}

type gradingService struct {
	grader    ai.Grader
	config    GradingConfig
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewGradingService constructs the grading adapter.
func NewGradingService(grader ai.Grader, cfg GradingConfig, logger zerolog.Logger) GradingService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &gradingService{
		grader:    grader,
		config:    cfg,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "grading_service").Logger(),
	}
}

// Grade runs one oracle call for the submission. The second return value
// reports whether the fallback path was taken.
func (s *gradingService) Grade(ctx context.Context, problem models.Problem, code, studentLabel, modelOverride string) (ai.GradingResult, bool) {
	model := strings.TrimSpace(modelOverride)
	if model == "" {
		model = s.config.DefaultModel
	}

	if s.grader == nil {
		s.logger.Error().Str("model", model).Msg("no grader configured")
		return s.fallback(problem, model), true
	}

	gradeCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	result, err := s.grader.Grade(gradeCtx, ai.GradingInput{
		ProblemTitle:       problem.Title,
		ProblemDescription: problem.Description,
		SampleInput:        problem.SampleInput,
		SampleOutput:       problem.SampleOutput,
		AnswerCode:         problem.AnswerCode,
		Rubric:             problem.Rubric,
		MaxScore:           problem.EffectiveMaxScore(),
		StudentLabel:       studentLabel,
		Code:               code,
		Model:              model,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("model", model).
			Uint("problem_id", problem.ID).
			Msg("oracle grading failed")
		return s.fallback(problem, model), true
	}

	// Oracle feedback is rendered to students; strip any markup it smuggled in.
	result.Feedback = s.sanitizer.Sanitize(result.Feedback)
	result.Summary = s.sanitizer.Sanitize(result.Summary)

	if result.Score > result.MaxScore {
		s.logger.Warn().
			Float64("score", result.Score).
			Float64("max_score", result.MaxScore).
			Uint("problem_id", problem.ID).
			Msg("oracle score exceeds max score")
	}

	return result, false
}

func (s *gradingService) fallback(problem models.Problem, model string) ai.GradingResult {
	return ai.GradingResult{
		Score:    0,
		MaxScore: problem.EffectiveMaxScore(),
		Feedback: fallbackFeedback,
		Summary:  fallbackSummary,
		Model:    model,
	}
}
