package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/models"
)

// AdminUserRepository exposes persistence helpers for instructor accounts.
type AdminUserRepository interface {
	GetByUsername(ctx context.Context, username string) (models.AdminUser, error)
	Create(ctx context.Context, admin *models.AdminUser) error
}

// NewAdminUserRepository constructs an admin user repository.
func NewAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

type adminUserRepository struct {
	db *gorm.DB
}

func (r *adminUserRepository) GetByUsername(ctx context.Context, username string) (models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return models.AdminUser{}, err
	}
	return admin, nil
}

func (r *adminUserRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}
