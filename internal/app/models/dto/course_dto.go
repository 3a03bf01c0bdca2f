package dto

// CreateCourseRequest creates a course in the catalog
type CreateCourseRequest struct {
	Code            string  `json:"code" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	Credits         int     `json:"credits" binding:"required,min=1"`
	WeeklyHours     int     `json:"weeklyHours" binding:"required,min=1"`
	Cycle           int     `json:"cycle" binding:"required,min=1,max=14"`
	TeacherID       *int64  `json:"teacherId,omitempty"`
	Capacity        *int    `json:"capacity,omitempty"`
	PrerequisiteIDs []int64 `json:"prerequisiteIds,omitempty"`
}

// UpdateCourseRequest updates an existing course
type UpdateCourseRequest struct {
	Name            *string `json:"name,omitempty"`
	Credits         *int    `json:"credits,omitempty"`
	WeeklyHours     *int    `json:"weeklyHours,omitempty"`
	TeacherID       *int64  `json:"teacherId,omitempty"`
	Capacity        *int    `json:"capacity,omitempty"`
	PrerequisiteIDs []int64 `json:"prerequisiteIds,omitempty"`
}
