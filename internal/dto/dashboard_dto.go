package dto

import "time"

// DashboardRowResponse is one student's standing on the selected problem.
type DashboardRowResponse struct {
	Student      StudentResponse `json:"student"`
	BestScore    *float64        `json:"best_score"`
	MaxScore     float64         `json:"max_score"`
	AttemptCount int64           `json:"attempt_count"`
	LastTime     *time.Time      `json:"last_time"`
	HasSubmitted bool            `json:"has_submitted"`
}

// DashboardResponse is the instructor view of one class group against one problem.
type DashboardResponse struct {
	ClassGroup ClassGroupResponse     `json:"class_group"`
	Problem    ProblemResponse        `json:"problem"`
	Rows       []DashboardRowResponse `json:"rows"`
}
