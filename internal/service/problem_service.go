package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/dto"
	"github.com/daehan-coding/grader-go-api/internal/models"
	"github.com/daehan-coding/grader-go-api/internal/repository"
)

// ProblemDetailResponse pairs a problem with the viewing student's attempts.
type ProblemDetailResponse struct {
	Problem     dto.ProblemResponse      `json:"problem"`
	Submissions []dto.SubmissionResponse `json:"submissions"`
	LatestCode  string                   `json:"latest_code"`
}

// ProblemService serves the problem catalog for students and instructors.
type ProblemService interface {
	Detail(ctx context.Context, problemID, studentID uint) (ProblemDetailResponse, error)
	AdminList(ctx context.Context) ([]dto.AdminProblemResponse, error)
	AdminGet(ctx context.Context, id uint) (dto.AdminProblemResponse, error)
	Create(ctx context.Context, payload dto.ProblemCreateRequest) (dto.AdminProblemResponse, error)
	Update(ctx context.Context, id uint, payload dto.ProblemUpdateRequest) (dto.AdminProblemResponse, error)
	ToggleOpen(ctx context.Context, id uint) (dto.AdminProblemResponse, error)
}

type problemService struct {
	problems    repository.ProblemRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewProblemService constructs the problem service.
func NewProblemService(problemRepo repository.ProblemRepository, submissionRepo repository.SubmissionRepository, validate *validator.Validate, logger zerolog.Logger) ProblemService {
	return &problemService{
		problems:    problemRepo,
		submissions: submissionRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "problem_service").Logger(),
	}
}

// Detail returns an open problem with the student's prior attempts, latest
// code first so the editor can be pre-filled.
func (s *problemService) Detail(ctx context.Context, problemID, studentID uint) (ProblemDetailResponse, error) {
	problem, err := s.problems.GetByID(ctx, problemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProblemDetailResponse{}, ErrProblemNotFound
		}
		return ProblemDetailResponse{}, err
	}

	if !problem.IsOpen {
		return ProblemDetailResponse{}, ErrProblemClosed
	}

	submissions, err := s.submissions.ListByStudentAndProblem(ctx, studentID, problemID)
	if err != nil {
		return ProblemDetailResponse{}, err
	}

	latestCode := ""
	if len(submissions) > 0 {
		latestCode = submissions[len(submissions)-1].Code
	}

	return ProblemDetailResponse{
		Problem:     dto.NewProblemResponse(problem),
		Submissions: dto.NewSubmissionResponses(submissions),
		LatestCode:  latestCode,
	}, nil
}

func (s *problemService) AdminList(ctx context.Context) ([]dto.AdminProblemResponse, error) {
	problems, err := s.problems.List(ctx, false)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AdminProblemResponse, 0, len(problems))
	for _, problem := range problems {
		responses = append(responses, dto.NewAdminProblemResponse(problem))
	}
	return responses, nil
}

func (s *problemService) AdminGet(ctx context.Context, id uint) (dto.AdminProblemResponse, error) {
	problem, err := s.problems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminProblemResponse{}, ErrProblemNotFound
		}
		return dto.AdminProblemResponse{}, err
	}
	return dto.NewAdminProblemResponse(problem), nil
}

func (s *problemService) Create(ctx context.Context, payload dto.ProblemCreateRequest) (dto.AdminProblemResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminProblemResponse{}, err
	}

	maxScore := payload.MaxScore
	if maxScore <= 0 {
		maxScore = models.DefaultMaxScore
	}

	problem := models.Problem{
		Title:        payload.Title,
		Description:  payload.Description,
		SampleInput:  payload.SampleInput,
		SampleOutput: payload.SampleOutput,
		AnswerCode:   payload.AnswerCode,
		Rubric:       payload.Rubric,
		MaxScore:     maxScore,
		IsOpen:       payload.IsOpen,
	}

	if err := s.problems.Create(ctx, &problem); err != nil {
		return dto.AdminProblemResponse{}, err
	}

	return dto.NewAdminProblemResponse(problem), nil
}

func (s *problemService) Update(ctx context.Context, id uint, payload dto.ProblemUpdateRequest) (dto.AdminProblemResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminProblemResponse{}, err
	}

	problem, err := s.problems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminProblemResponse{}, ErrProblemNotFound
		}
		return dto.AdminProblemResponse{}, err
	}

	if payload.Title != nil {
		problem.Title = *payload.Title
	}
	if payload.Description != nil {
		problem.Description = *payload.Description
	}
	if payload.SampleInput != nil {
		problem.SampleInput = *payload.SampleInput
	}
	if payload.SampleOutput != nil {
		problem.SampleOutput = *payload.SampleOutput
	}
	if payload.AnswerCode != nil {
		problem.AnswerCode = *payload.AnswerCode
	}
	if payload.Rubric != nil {
		problem.Rubric = *payload.Rubric
	}
	if payload.MaxScore != nil {
		problem.MaxScore = *payload.MaxScore
	}
	if payload.IsOpen != nil {
		problem.IsOpen = *payload.IsOpen
	}

	if err := s.problems.Update(ctx, &problem); err != nil {
		return dto.AdminProblemResponse{}, err
	}

	return dto.NewAdminProblemResponse(problem), nil
}

func (s *problemService) ToggleOpen(ctx context.Context, id uint) (dto.AdminProblemResponse, error) {
	problem, err := s.problems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminProblemResponse{}, ErrProblemNotFound
		}
		return dto.AdminProblemResponse{}, err
	}

	problem.IsOpen = !problem.IsOpen
	if err := s.problems.Update(ctx, &problem); err != nil {
		return dto.AdminProblemResponse{}, err
	}

	return dto.NewAdminProblemResponse(problem), nil
}
