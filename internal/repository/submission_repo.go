package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/models"
)

// AttemptCounts is the snapshot the grading pipeline derives its rate-limit
// decision and next attempt number from. Both counts come from one query pass
// so they describe the same moment.
type AttemptCounts struct {
	Windowed int64
	AllTime  int64
}

// SubmissionSummary aggregates a student's attempts on one problem.
type SubmissionSummary struct {
	ProblemID uint
	Attempts  int64
	BestScore *float64
	LastTime  *time.Time
}

// SubmissionRepository exposes persistence helpers for submissions.
// Submissions are write-once: there is deliberately no update method.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	CountAttempts(ctx context.Context, studentID, problemID uint, windowStart time.Time) (AttemptCounts, error)
	ListByStudentAndProblem(ctx context.Context, studentID, problemID uint) ([]models.Submission, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error)
	SummarizeByStudent(ctx context.Context, studentID uint) ([]SubmissionSummary, error)
	SummarizeByStudentAndProblem(ctx context.Context, studentID, problemID uint) (SubmissionSummary, error)
}

// NewSubmissionRepository constructs a submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

type submissionRepository struct {
	db *gorm.DB
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Problem").
		First(&submission, id).Error
	if err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) CountAttempts(ctx context.Context, studentID, problemID uint, windowStart time.Time) (AttemptCounts, error) {
	base := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("student_id = ? AND problem_id = ?", studentID, problemID)

	var counts AttemptCounts
	if err := base.Session(&gorm.Session{}).Count(&counts.AllTime).Error; err != nil {
		return AttemptCounts{}, err
	}

	if err := base.Session(&gorm.Session{}).Where("created_at >= ?", windowStart).Count(&counts.Windowed).Error; err != nil {
		return AttemptCounts{}, err
	}

	return counts, nil
}

func (r *submissionRepository) ListByStudentAndProblem(ctx context.Context, studentID, problemID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND problem_id = ?", studentID, problemID).
		Order("attempt_no").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("problem_id, attempt_no").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) SummarizeByStudent(ctx context.Context, studentID uint) ([]SubmissionSummary, error) {
	var summaries []SubmissionSummary
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Select("problem_id, COUNT(id) AS attempts, MAX(score) AS best_score, MAX(created_at) AS last_time").
		Where("student_id = ?", studentID).
		Group("problem_id").
		Order("problem_id").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *submissionRepository) SummarizeByStudentAndProblem(ctx context.Context, studentID, problemID uint) (SubmissionSummary, error) {
	summary := SubmissionSummary{ProblemID: problemID}
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Select("problem_id, COUNT(id) AS attempts, MAX(score) AS best_score, MAX(created_at) AS last_time").
		Where("student_id = ? AND problem_id = ?", studentID, problemID).
		Group("problem_id").
		Scan(&summary).Error
	if err != nil {
		return SubmissionSummary{}, err
	}
	return summary, nil
}
