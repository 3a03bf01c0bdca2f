package dto

// RecordAttendanceRequest records a single attendance mark.
type RecordAttendanceRequest struct {
	StudentID int64   `json:"studentId" binding:"required,min=1"`
	CourseID  int64   `json:"courseId" binding:"required,min=1"`
	Date      string  `json:"date" binding:"required,datetime=2006-01-02"`
	ClassType string  `json:"classType" binding:"required,oneof=THEORY PRACTICE"`
	Present   bool    `json:"present"`
	Notes     *string `json:"notes,omitempty"`
}

// BatchAttendanceEntry is one row of a batch attendance upload.
type BatchAttendanceEntry struct {
	StudentID int64   `json:"studentId" binding:"required,min=1"`
	Present   bool    `json:"present"`
	Notes     *string `json:"notes,omitempty"`
}

// BatchAttendanceRequest records attendance for a whole session. Rows
// are upserted independently; one bad row does not block the rest.
type BatchAttendanceRequest struct {
	CourseID  int64                  `json:"courseId" binding:"required,min=1"`
	Date      string                 `json:"date" binding:"required,datetime=2006-01-02"`
	ClassType string                 `json:"classType" binding:"required,oneof=THEORY PRACTICE"`
	Entries   []BatchAttendanceEntry `json:"entries" binding:"required,min=1,dive"`
}

// AttendanceSummaryRequest bounds a course summary to a date range.
type AttendanceSummaryRequest struct {
	From *string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   *string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// BatchAttendanceOutcome is the per-row result of a batch upload.
type BatchAttendanceOutcome struct {
	StudentID int64  `json:"studentId"`
	Recorded  bool   `json:"recorded"`
	Updated   bool   `json:"updated"`
	Reason    string `json:"reason,omitempty"`
}

// BatchAttendanceResponse summarizes a batch attendance upload.
type BatchAttendanceResponse struct {
	Outcomes []BatchAttendanceOutcome `json:"outcomes"`
	Recorded int                      `json:"recorded"`
	Failed   int                      `json:"failed"`
}

// StudentAttendanceSummary aggregates one student's presence in a course.
// Percentage is 0 when the student has no recorded sessions.
type StudentAttendanceSummary struct {
	StudentID  int64   `json:"studentId"`
	Sessions   int     `json:"sessions"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Percentage float64 `json:"percentage"`
}

// CourseAttendanceSummary is the roster-wide attendance report of a course.
type CourseAttendanceSummary struct {
	CourseID int64                      `json:"courseId"`
	Students []StudentAttendanceSummary `json:"students"`
}
