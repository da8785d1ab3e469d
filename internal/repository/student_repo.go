package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/models"
)

// StudentRepository exposes persistence helpers for students.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByTriple(ctx context.Context, grade, classNo, studentNo int) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateName(ctx context.Context, id uint, name string) error
	ListByIDs(ctx context.Context, ids []uint) ([]models.Student, error)
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

type studentRepository struct {
	db *gorm.DB
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) GetByTriple(ctx context.Context, grade, classNo, studentNo int) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Where("grade = ? AND class_no = ? AND student_no = ?", grade, classNo, studentNo).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) UpdateName(ctx context.Context, id uint, name string) error {
	return r.db.WithContext(ctx).Model(&models.Student{}).Where("id = ?", id).Update("name", name).Error
}

func (r *studentRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var students []models.Student
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("grade, class_no, student_no").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}
