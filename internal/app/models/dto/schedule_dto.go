package dto

// SlotInput describes one desired weekly time block. Times are "HH:MM".
type SlotInput struct {
	CourseID  int64   `json:"courseId" binding:"required,min=1"`
	DayOfWeek int     `json:"dayOfWeek" binding:"required,min=1,max=7"`
	StartTime string  `json:"startTime" binding:"required"`
	EndTime   string  `json:"endTime" binding:"required"`
	Room      *string `json:"room,omitempty"`
	ClassType string  `json:"classType" binding:"required,oneof=THEORY PRACTICE"`
}

// ValidateSlotRequest checks one proposed slot against existing slots.
type ValidateSlotRequest struct {
	Slot SlotInput `json:"slot" binding:"required"`
	// ExcludeSlotID skips one persisted slot, for edit-in-place.
	ExcludeSlotID int64 `json:"excludeSlotId"`
}

// BuildScheduleRequest creates many slots in one pass with per-slot outcomes.
type BuildScheduleRequest struct {
	Slots []SlotInput `json:"slots" binding:"required,min=1,dive"`
}

// SlotConflict names one persisted slot that collides with a proposal.
type SlotConflict struct {
	SlotID     int64  `json:"slotId"`
	CourseID   int64  `json:"courseId"`
	CourseName string `json:"courseName,omitempty"`
	DayOfWeek  int    `json:"dayOfWeek"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// SlotValidationResponse reports whether a proposed slot is placeable.
type SlotValidationResponse struct {
	Valid     bool           `json:"valid"`
	Conflicts []SlotConflict `json:"conflicts,omitempty"`
}

// SlotOutcome is the per-slot result of a schedule build. Accepted slots
// are persisted and constrain the slots that follow them in the request.
type SlotOutcome struct {
	Index     int            `json:"index"`
	Accepted  bool           `json:"accepted"`
	SlotID    int64          `json:"slotId,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Conflicts []SlotConflict `json:"conflicts,omitempty"`
}

// BuildScheduleResponse summarizes a schedule build.
type BuildScheduleResponse struct {
	Outcomes []SlotOutcome `json:"outcomes"`
	Accepted int           `json:"accepted"`
	Rejected int           `json:"rejected"`
}
