package dto

import "github.com/daehan-coding/grader-go-api/internal/models"

// StudentLoginRequest carries the roster credentials a student signs in with.
type StudentLoginRequest struct {
	StudentCode string `json:"student_code" validate:"required,len=5,numeric"`
	Name        string `json:"name" validate:"required,min=1,max=50"`
}

// AdminLoginRequest carries instructor credentials.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=1"`
}

// StudentResponse summarizes a student for API clients.
type StudentResponse struct {
	ID          uint   `json:"id"`
	StudentCode string `json:"student_code"`
	Name        string `json:"name"`
}

// ClassGroupResponse summarizes one class section.
type ClassGroupResponse struct {
	ID      uint   `json:"id"`
	Subject string `json:"subject"`
	Section string `json:"section"`
	Label   string `json:"label"`
	Year    *int   `json:"year"`
	Term    string `json:"term"`
}

// StudentLoginResponse is returned after a successful student login.
type StudentLoginResponse struct {
	Token       string               `json:"token"`
	Student     StudentResponse      `json:"student"`
	ClassGroups []ClassGroupResponse `json:"class_groups"`
}

// AdminLoginResponse is returned after a successful instructor login.
type AdminLoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// NewStudentResponse maps a student model to its API shape.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:          student.ID,
		StudentCode: student.StudentCode(),
		Name:        student.Name,
	}
}

// NewClassGroupResponse maps a class group model to its API shape.
func NewClassGroupResponse(group models.ClassGroup) ClassGroupResponse {
	return ClassGroupResponse{
		ID:      group.ID,
		Subject: group.Subject,
		Section: group.Section,
		Label:   group.Label,
		Year:    group.Year,
		Term:    group.Term,
	}
}
