package dto

// EnrollRequest enrolls a student in a course. PeriodID is optional;
// when omitted the active period is used, and an explicit period must
// be the active one.
type EnrollRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1"`
	CourseID  int64 `json:"courseId" binding:"required,min=1"`
	PeriodID  int64 `json:"periodId" binding:"omitempty,min=1"`
	// Override skips prerequisite and schedule checks; administrative use.
	Override bool `json:"override"`
}

// PrerequisiteCheckResponse reports prerequisite satisfaction for a
// student/course pair.
type PrerequisiteCheckResponse struct {
	Satisfied        bool    `json:"satisfied"`
	MissingCourseIDs []int64 `json:"missingCourseIds,omitempty"`
}
