package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/models"
)

// ClassGroupRepository exposes persistence helpers for class groups and enrollments.
type ClassGroupRepository interface {
	GetByID(ctx context.Context, id uint) (models.ClassGroup, error)
	GetBySubjectAndSection(ctx context.Context, subject, section string) (models.ClassGroup, error)
	Create(ctx context.Context, group *models.ClassGroup) error
	List(ctx context.Context) ([]models.ClassGroup, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.ClassGroup, error)
	Enroll(ctx context.Context, classGroupID, studentID uint) (bool, error)
	ListEnrolledStudentIDs(ctx context.Context, classGroupID uint) ([]uint, error)
}

// NewClassGroupRepository constructs a class group repository.
func NewClassGroupRepository(db *gorm.DB) ClassGroupRepository {
	return &classGroupRepository{db: db}
}

type classGroupRepository struct {
	db *gorm.DB
}

func (r *classGroupRepository) GetByID(ctx context.Context, id uint) (models.ClassGroup, error) {
	var group models.ClassGroup
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return models.ClassGroup{}, err
	}
	return group, nil
}

func (r *classGroupRepository) GetBySubjectAndSection(ctx context.Context, subject, section string) (models.ClassGroup, error) {
	var group models.ClassGroup
	err := r.db.WithContext(ctx).
		Where("subject = ? AND section = ?", subject, section).
		First(&group).Error
	if err != nil {
		return models.ClassGroup{}, err
	}
	return group, nil
}

func (r *classGroupRepository) Create(ctx context.Context, group *models.ClassGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *classGroupRepository) List(ctx context.Context) ([]models.ClassGroup, error) {
	var groups []models.ClassGroup
	if err := r.db.WithContext(ctx).Order("subject, section").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *classGroupRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.ClassGroup, error) {
	var groups []models.ClassGroup
	err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.class_group_id = class_groups.id").
		Where("enrollments.student_id = ?", studentID).
		Order("class_groups.subject, class_groups.section").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Enroll records the student in the class group. It reports whether a new
// enrollment row was created.
func (r *classGroupRepository) Enroll(ctx context.Context, classGroupID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("class_group_id = ? AND student_id = ?", classGroupID, studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	enrollment := models.Enrollment{ClassGroupID: classGroupID, StudentID: studentID}
	if err := r.db.WithContext(ctx).Create(&enrollment).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *classGroupRepository) ListEnrolledStudentIDs(ctx context.Context, classGroupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("class_group_id = ?", classGroupID).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
