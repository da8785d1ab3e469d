package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/dto"
	"github.com/daehan-coding/grader-go-api/internal/repository"
)

// ErrClassGroupNotFound indicates the class group cannot be located.
var ErrClassGroupNotFound = errors.New("class group not found")

// DashboardService aggregates submission standings for students and instructors.
type DashboardService interface {
	StudentStatuses(ctx context.Context, studentID uint) ([]dto.ProblemStatusResponse, error)
	ClassGroupStandings(ctx context.Context, classGroupID, problemID uint) (dto.DashboardResponse, error)
	InvalidateStudent(ctx context.Context, studentID uint)
}

type dashboardService struct {
	problems    repository.ProblemRepository
	submissions repository.SubmissionRepository
	students    repository.StudentRepository
	classGroups repository.ClassGroupRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(
	problemRepo repository.ProblemRepository,
	submissionRepo repository.SubmissionRepository,
	studentRepo repository.StudentRepository,
	classGroupRepo repository.ClassGroupRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		problems:    problemRepo,
		submissions: submissionRepo,
		students:    studentRepo,
		classGroups: classGroupRepo,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
	}
}

// StudentStatuses lists every open problem with the student's progress on it.
// The payload is cached per student; the submission pipeline invalidates it
// on every accepted attempt.
func (s *dashboardService) StudentStatuses(ctx context.Context, studentID uint) ([]dto.ProblemStatusResponse, error) {
	cacheKey := statusCacheKey(studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var statuses []dto.ProblemStatusResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &statuses); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("status cache hit")
				return statuses, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read status cache")
		}
	}

	problems, err := s.problems.List(ctx, true)
	if err != nil {
		return nil, err
	}

	summaries, err := s.submissions.SummarizeByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	summaryByProblem := make(map[uint]repository.SubmissionSummary, len(summaries))
	for _, summary := range summaries {
		summaryByProblem[summary.ProblemID] = summary
	}

	statuses := make([]dto.ProblemStatusResponse, 0, len(problems))
	for _, problem := range problems {
		status := dto.ProblemStatusResponse{
			Problem: dto.NewProblemResponse(problem),
			Status:  dto.ProblemStatusNotSubmitted,
		}

		if summary, ok := summaryByProblem[problem.ID]; ok {
			status.Attempts = summary.Attempts
			status.BestScore = summary.BestScore
			status.LastTime = summary.LastTime
			status.Status = dto.ProblemStatusInProgress
			if summary.BestScore != nil && *summary.BestScore >= problem.EffectiveMaxScore() {
				status.Status = dto.ProblemStatusCompleted
			}
		}

		statuses = append(statuses, status)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(statuses); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store status cache")
			}
		}
	}

	return statuses, nil
}

// ClassGroupStandings is the instructor grid: one row per enrolled student
// with their best score, attempt count, and last submission time on the problem.
func (s *dashboardService) ClassGroupStandings(ctx context.Context, classGroupID, problemID uint) (dto.DashboardResponse, error) {
	group, err := s.classGroups.GetByID(ctx, classGroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DashboardResponse{}, ErrClassGroupNotFound
		}
		return dto.DashboardResponse{}, err
	}

	problem, err := s.problems.GetByID(ctx, problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DashboardResponse{}, ErrProblemNotFound
		}
		return dto.DashboardResponse{}, err
	}

	studentIDs, err := s.classGroups.ListEnrolledStudentIDs(ctx, classGroupID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	students, err := s.students.ListByIDs(ctx, studentIDs)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	rows := make([]dto.DashboardRowResponse, 0, len(students))
	for _, student := range students {
		summary, err := s.submissions.SummarizeByStudentAndProblem(ctx, student.ID, problemID)
		if err != nil {
			return dto.DashboardResponse{}, err
		}

		rows = append(rows, dto.DashboardRowResponse{
			Student:      dto.NewStudentResponse(student),
			BestScore:    summary.BestScore,
			MaxScore:     problem.EffectiveMaxScore(),
			AttemptCount: summary.Attempts,
			LastTime:     summary.LastTime,
			HasSubmitted: summary.Attempts > 0,
		})
	}

	return dto.DashboardResponse{
		ClassGroup: dto.NewClassGroupResponse(group),
		Problem:    dto.NewProblemResponse(problem),
		Rows:       rows,
	}, nil
}

// InvalidateStudent drops the cached status payload after a new submission.
func (s *dashboardService) InvalidateStudent(ctx context.Context, studentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statusCacheKey(studentID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to invalidate status cache")
	}
}

func statusCacheKey(studentID uint) string {
	return fmt.Sprintf("status:student:%d", studentID)
}
