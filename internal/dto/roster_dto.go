package dto

// RosterImportRequest carries the class metadata accompanying a roster CSV upload.
type RosterImportRequest struct {
	Subject string `form:"subject" validate:"required,min=1,max=100"`
	Year    *int   `form:"year" validate:"omitempty,gte=2000,lte=2100"`
	Term    string `form:"term" validate:"omitempty,max=20"`
}

// RosterImportResponse reports what a roster CSV import changed.
type RosterImportResponse struct {
	TotalRows      int `json:"total_rows"`
	SkippedRows    int `json:"skipped_rows"`
	NewStudents    int `json:"new_students"`
	NewClassGroups int `json:"new_class_groups"`
	NewEnrollments int `json:"new_enrollments"`
}
