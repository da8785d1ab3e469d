package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is one graded attempt. Rows are write-once: no field is ever
// updated after the insert. The unique index on (student_id, problem_id,
// attempt_no) turns a racing duplicate attempt number into an insert
// conflict instead of silent duplication.
type Submission struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	StudentID uint              `gorm:"not null;uniqueIndex:uq_attempt" json:"student_id"`
	ProblemID uint              `gorm:"not null;uniqueIndex:uq_attempt" json:"problem_id"`
	Code      string            `gorm:"type:text;not null" json:"code"`
	Score     float64           `gorm:"not null" json:"score"`
	MaxScore  float64           `gorm:"not null" json:"max_score"`
	Feedback  string            `gorm:"type:text" json:"feedback"`
	Summary   string            `gorm:"type:text" json:"summary"`
	AttemptNo int               `gorm:"not null;uniqueIndex:uq_attempt" json:"attempt_no"`
	GptModel  *string           `gorm:"size:100" json:"gpt_model"`
	Raw       datatypes.JSONMap `json:"-"`
	CreatedAt time.Time         `json:"created_at"`
	Student   Student           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Problem   Problem           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
