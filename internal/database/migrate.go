package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/models"
)

// Migrate applies the schema for every persisted entity. Submission carries a
// unique index on (student_id, problem_id, attempt_no) which the grading
// pipeline relies on to detect racing attempt numbers.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Student{},
		&models.ClassGroup{},
		&models.Enrollment{},
		&models.Problem{},
		&models.Submission{},
		&models.AdminUser{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	return nil
}
