package models

import "time"

// DefaultMaxScore is the score ceiling applied when a problem does not set one.
const DefaultMaxScore = 10

// Problem is one grading target authored by an instructor. The grading
// pipeline treats problems as read-only.
type Problem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	SampleInput  string    `gorm:"type:text" json:"sample_input"`
	SampleOutput string    `gorm:"type:text" json:"sample_output"`
	AnswerCode   string    `gorm:"type:text;not null" json:"-"`
	Rubric       string    `gorm:"type:text;not null" json:"-"`
	MaxScore     float64   `gorm:"not null;default:10" json:"max_score"`
	IsOpen       bool      `gorm:"not null;default:false" json:"is_open"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EffectiveMaxScore falls back to the default ceiling when the stored value is unusable.
func (p Problem) EffectiveMaxScore() float64 {
	if p.MaxScore <= 0 {
		return DefaultMaxScore
	}
	return p.MaxScore
}
