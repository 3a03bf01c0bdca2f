package models

// ScheduleSlot is a recurring weekly time block for a course. Times of
// day are minutes since midnight; intervals are half-open, so touching
// endpoints do not overlap.
type ScheduleSlot struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	DayOfWeek   int       `json:"dayOfWeek" db:"day_of_week"` // 1 (Monday) .. 7 (Sunday)
	StartMinute int       `json:"startMinute" db:"start_minute"`
	EndMinute   int       `json:"endMinute" db:"end_minute"`
	Room        *string   `json:"room,omitempty" db:"room"` // Nullable
	ClassType   ClassType `json:"classType" db:"class_type"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
}

// Overlaps reports whether two slots collide in time on the same day.
func (s *ScheduleSlot) Overlaps(other *ScheduleSlot) bool {
	if s.DayOfWeek != other.DayOfWeek {
		return false
	}
	return s.StartMinute < other.EndMinute && other.StartMinute < s.EndMinute
}

// SharesTeacher reports whether both slots belong to courses assigned to
// the same teacher. Requires the Course relation to be populated; a
// course without an assigned teacher shares one with nobody.
func (s *ScheduleSlot) SharesTeacher(other *ScheduleSlot) bool {
	if s.Course == nil || other.Course == nil {
		return false
	}
	if s.Course.TeacherID == nil || other.Course.TeacherID == nil {
		return false
	}
	return *s.Course.TeacherID == *other.Course.TeacherID
}

// SharesRoom reports whether both slots specify the same room. Slots
// without a room never share one.
func (s *ScheduleSlot) SharesRoom(other *ScheduleSlot) bool {
	if s.Room == nil || other.Room == nil {
		return false
	}
	return *s.Room == *other.Room
}
