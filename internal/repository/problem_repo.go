package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/models"
)

// ProblemRepository exposes persistence helpers for problems.
type ProblemRepository interface {
	List(ctx context.Context, openOnly bool) ([]models.Problem, error)
	GetByID(ctx context.Context, id uint) (models.Problem, error)
	Create(ctx context.Context, problem *models.Problem) error
	Update(ctx context.Context, problem *models.Problem) error
}

// NewProblemRepository constructs a problem repository.
func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &problemRepository{db: db}
}

type problemRepository struct {
	db *gorm.DB
}

func (r *problemRepository) List(ctx context.Context, openOnly bool) ([]models.Problem, error) {
	query := r.db.WithContext(ctx).Model(&models.Problem{})
	if openOnly {
		query = query.Where("is_open = ?", true)
	}

	var problems []models.Problem
	if err := query.Order("id").Find(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}

func (r *problemRepository) GetByID(ctx context.Context, id uint) (models.Problem, error) {
	var problem models.Problem
	if err := r.db.WithContext(ctx).First(&problem, id).Error; err != nil {
		return models.Problem{}, err
	}
	return problem, nil
}

func (r *problemRepository) Create(ctx context.Context, problem *models.Problem) error {
	return r.db.WithContext(ctx).Create(problem).Error
}

func (r *problemRepository) Update(ctx context.Context, problem *models.Problem) error {
	return r.db.WithContext(ctx).Save(problem).Error
}
