package dto

// EvaluationTypeInput is one weighted grading component of a course.
type EvaluationTypeInput struct {
	Name         string  `json:"name" binding:"required"`
	Weight       float64 `json:"weight" binding:"min=0,max=100"`
	DisplayOrder int     `json:"displayOrder"`
	Active       bool    `json:"active"`
}

// ConfigureEvaluationTypesRequest replaces a course's evaluation types.
type ConfigureEvaluationTypesRequest struct {
	Types []EvaluationTypeInput `json:"types" binding:"required,min=1,dive"`
}

// GradeItemInput is one (evaluation type, value) pair. The payload is an
// explicit ordered list, validated structurally before any write.
type GradeItemInput struct {
	EvaluationTypeID int64   `json:"evaluationTypeId" binding:"required,min=1"`
	Value            float64 `json:"value" binding:"min=0,max=20"`
}

// GradeEntryInput carries the grade items for one enrollment.
type GradeEntryInput struct {
	EnrollmentID int64            `json:"enrollmentId" binding:"required,min=1"`
	Items        []GradeItemInput `json:"items" binding:"required,min=1,dive"`
}

// RecordGradesRequest records grades for many enrollments of a course.
type RecordGradesRequest struct {
	Entries []GradeEntryInput `json:"entries" binding:"required,min=1,dive"`
}

// EnrollmentAverageResponse reports the weighted average of an enrollment.
type EnrollmentAverageResponse struct {
	EnrollmentID int64   `json:"enrollmentId"`
	Average      float64 `json:"average"`
	// Final is true once every active evaluation type has a recorded
	// grade; until then the average is provisional.
	Final  bool   `json:"final"`
	Status string `json:"status"`
}
