package services

import (
	"github.com/edunova/academia/internal/app/repositories"
	"github.com/edunova/academia/internal/pkg/auth"
	"github.com/edunova/academia/internal/pkg/eventbus"
)

// Services holds all the service instances
type Services struct {
	Auth         *AuthService
	Course       *CourseService
	Period       *PeriodService
	Enrollment   *EnrollmentService
	Grade        *GradeService
	Attendance   *AttendanceService
	Schedule     *ScheduleService
	Notification *NotificationService
}

// NewServices wires every service onto the shared repositories, token
// issuer and event bus.
func NewServices(
	repos *repositories.Repositories,
	jwt *auth.JWTService,
	bus *eventbus.Bus,
	gradeScaleMax float64,
	passThreshold float64,
) *Services {
	prerequisites := NewPrerequisiteValidator(repos.CourseRepository, repos.EnrollmentRepository)

	return &Services{
		Auth:   NewAuthService(repos.UserRepository, jwt),
		Course: NewCourseService(repos.CourseRepository),
		Period: NewPeriodService(repos.PeriodRepository),
		Enrollment: NewEnrollmentService(
			repos.EnrollmentRepository,
			repos.CourseRepository,
			repos.PeriodRepository,
			repos.UserRepository,
			repos.ScheduleRepository,
			prerequisites,
			bus,
		),
		Grade: NewGradeService(
			repos.EvaluationTypeRepository,
			repos.GradeRepository,
			repos.EnrollmentRepository,
			repos.CourseRepository,
			repos.UserRepository,
			gradeScaleMax,
			passThreshold,
		),
		Attendance:   NewAttendanceService(repos.AttendanceRepository, repos.EnrollmentRepository, repos.CourseRepository),
		Schedule:     NewScheduleService(repos.ScheduleRepository, repos.CourseRepository),
		Notification: NewNotificationService(repos.NotificationRepository),
	}
}
