package models

import "time"

// ClassGroup is one elective-course section, e.g. subject "Informatics" section "A".
type ClassGroup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Subject   string    `gorm:"size:100;not null;uniqueIndex:uq_class_group" json:"subject"`
	Section   string    `gorm:"size:20;not null;uniqueIndex:uq_class_group" json:"section"`
	Label     string    `gorm:"size:150;not null" json:"label"`
	Year      *int      `json:"year"`
	Term      string    `gorm:"size:20" json:"term"`
	CreatedAt time.Time `json:"created_at"`
}

// Enrollment links a student to a class group. The pair is unique.
type Enrollment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ClassGroupID uint       `gorm:"not null;uniqueIndex:uq_enrollment" json:"class_group_id"`
	StudentID    uint       `gorm:"not null;uniqueIndex:uq_enrollment" json:"student_id"`
	CreatedAt    time.Time  `json:"created_at"`
	ClassGroup   ClassGroup `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"class_group"`
	Student      Student    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
