package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Course and period errors
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrPeriodNotFound       = errors.New("period not found")
	ErrNoActivePeriod       = errors.New("no active enrollment period")
	ErrPeriodNotActive      = errors.New("period is not the active enrollment period")
	ErrCourseWithoutTeacher = errors.New("course has no assigned teacher")
)

// Enrollment errors
var (
	ErrEnrollmentNotFound     = errors.New("enrollment not found")
	ErrEnrollmentExists       = errors.New("student is already enrolled in this course for the period")
	ErrEnrollmentWithdrawn    = errors.New("enrollment has been withdrawn")
	ErrPrerequisitesUnmet     = errors.New("course prerequisites are not satisfied")
	ErrScheduleClash          = errors.New("course schedule clashes with an existing enrollment")
	ErrCourseCapacityExceeded = errors.New("course has reached its enrollment capacity")
	ErrEnrollmentNotGradable  = errors.New("enrollment does not accept further grades")
)

// Grading errors
var (
	ErrEvaluationTypeNotFound  = errors.New("evaluation type not found")
	ErrGradeOutOfRange         = errors.New("grade value is out of range")
	ErrWeightOutOfRange        = errors.New("evaluation weight is out of range")
	ErrDuplicateEvaluationName = errors.New("evaluation type name already used for this course")
	ErrTeacherNotOwner         = errors.New("teacher does not own this course")
)

// Attendance errors
var (
	ErrAttendanceExists = errors.New("attendance already recorded for this session")
	ErrStudentNotFound  = errors.New("student not found")
	ErrTeacherNotFound  = errors.New("teacher not found")
)

// Schedule errors
var (
	ErrSlotNotFound    = errors.New("schedule slot not found")
	ErrSlotConflict    = errors.New("schedule slot conflicts with an existing slot")
	ErrInvalidTimeSpan = errors.New("invalid time span")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches err or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
