package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/dto"
	"github.com/daehan-coding/grader-go-api/internal/models"
	"github.com/daehan-coding/grader-go-api/internal/observability"
	"github.com/daehan-coding/grader-go-api/internal/repository"
)

// ErrProblemNotFound indicates the problem cannot be located.
var ErrProblemNotFound = errors.New("problem not found")

// ErrProblemClosed indicates the problem is not open for submissions.
var ErrProblemClosed = errors.New("problem is closed")

// ErrStudentNotFound indicates the student cannot be located.
var ErrStudentNotFound = errors.New("student not found")

// ErrRateLimited indicates the student exhausted the submission ceiling for the window.
var ErrRateLimited = errors.New("submission limit reached")

// ErrCodeTooLarge indicates the submitted code exceeds the size cap.
var ErrCodeTooLarge = errors.New("code exceeds size limit")

// ErrSubmissionNotFound indicates the submission cannot be located.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrSubmissionForbidden indicates the caller may not view the submission.
var ErrSubmissionForbidden = errors.New("forbidden")

// StatusCacheInvalidator drops a student's cached problem-status payload.
type StatusCacheInvalidator interface {
	InvalidateStudent(ctx context.Context, studentID uint)
}

// SubmissionService runs the submission pipeline and serves attempt history.
type SubmissionService interface {
	Submit(ctx context.Context, studentID, problemID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint, viewerID uint, role string) (dto.SubmissionResponse, error)
	History(ctx context.Context, studentID uint) ([]dto.HistoryRowResponse, error)
	ListAttempts(ctx context.Context, studentID, problemID uint) ([]dto.SubmissionResponse, error)
}

// SubmissionConfig tunes the rate limiter and input caps.
type SubmissionConfig struct {
	AttemptLimit int
	Window       time.Duration
	MaxCodeBytes int
}

type submissionService struct {
	submissions repository.SubmissionRepository
	problems    repository.ProblemRepository
	students    repository.StudentRepository
	grading     GradingService
	invalidator StatusCacheInvalidator
	validator   *validator.Validate
	logger      zerolog.Logger
	config      SubmissionConfig
	attempts    keyedMutex
}

// NewSubmissionService constructs the submission pipeline service.
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	problemRepo repository.ProblemRepository,
	studentRepo repository.StudentRepository,
	grading GradingService,
	invalidator StatusCacheInvalidator,
	validate *validator.Validate,
	logger zerolog.Logger,
	cfg SubmissionConfig,
) SubmissionService {
	if cfg.AttemptLimit <= 0 {
		cfg.AttemptLimit = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = 24 * time.Hour
	}
	if cfg.MaxCodeBytes <= 0 {
		cfg.MaxCodeBytes = 64 * 1024
	}

	return &submissionService{
		submissions: submissionRepo,
		problems:    problemRepo,
		students:    studentRepo,
		grading:     grading,
		invalidator: invalidator,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		config:      cfg,
	}
}

// Submit runs the full pipeline for one attempt: rate-limit check, attempt
// numbering, oracle grading, and the single durable insert. The count and the
// insert happen under a per-(student, problem) lock so concurrent attempts by
// the same student serialize instead of sharing an attempt number.
func (s *submissionService) Submit(ctx context.Context, studentID, problemID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	start := time.Now()

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if len(payload.Code) > s.config.MaxCodeBytes {
		return dto.SubmissionResponse{}, ErrCodeTooLarge
	}

	problem, err := s.problems.GetByID(ctx, problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrProblemNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if !problem.IsOpen {
		return dto.SubmissionResponse{}, ErrProblemClosed
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrStudentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	unlock := s.attempts.lock(fmt.Sprintf("%d:%d", studentID, problemID))
	defer unlock()

	counts, err := s.submissions.CountAttempts(ctx, studentID, problemID, time.Now().UTC().Add(-s.config.Window))
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if counts.Windowed >= int64(s.config.AttemptLimit) {
		observability.Submissions().WithLabelValues(observability.OutcomeRateLimited).Inc()
		return dto.SubmissionResponse{}, ErrRateLimited
	}

	attemptNo := int(counts.AllTime) + 1

	result, fellBack := s.grading.Grade(ctx, problem, payload.Code, student.Label(), payload.Model)

	model := result.Model
	submission := models.Submission{
		StudentID: studentID,
		ProblemID: problemID,
		Code:      payload.Code,
		Score:     result.Score,
		MaxScore:  result.MaxScore,
		Feedback:  result.Feedback,
		Summary:   result.Summary,
		AttemptNo: attemptNo,
		GptModel:  &model,
		Raw:       datatypes.JSONMap(result.Raw),
	}

	// Storage failure is the one error allowed out of the pipeline; dropping
	// the row silently would desynchronize the attempt sequence.
	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("record submission: %w", err)
	}

	outcome := observability.OutcomeAccepted
	if fellBack {
		outcome = observability.OutcomeFallback
	}
	observability.Submissions().WithLabelValues(outcome).Inc()
	observability.PipelineLatency().WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if s.invalidator != nil {
		s.invalidator.InvalidateStudent(ctx, studentID)
	}

	s.logger.Info().
		Uint("student_id", studentID).
		Uint("problem_id", problemID).
		Int("attempt_no", attemptNo).
		Float64("score", result.Score).
		Bool("fallback", fellBack).
		Msg("submission graded")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Get(ctx context.Context, id uint, viewerID uint, role string) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if role != "admin" && submission.StudentID != viewerID {
		return dto.SubmissionResponse{}, ErrSubmissionForbidden
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) History(ctx context.Context, studentID uint) ([]dto.HistoryRowResponse, error) {
	summaries, err := s.submissions.SummarizeByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.HistoryRowResponse, 0, len(summaries))
	for _, summary := range summaries {
		problem, err := s.problems.GetByID(ctx, summary.ProblemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		rows = append(rows, dto.HistoryRowResponse{
			Problem:   dto.NewProblemResponse(problem),
			Attempts:  summary.Attempts,
			BestScore: summary.BestScore,
			LastTime:  summary.LastTime,
		})
	}

	return rows, nil
}

func (s *submissionService) ListAttempts(ctx context.Context, studentID, problemID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListByStudentAndProblem(ctx, studentID, problemID)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponses(submissions), nil
}

// keyedMutex serializes work per string key. Entries are never evicted; the
// key space is bounded by (students x problems) in one class, which is small.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
