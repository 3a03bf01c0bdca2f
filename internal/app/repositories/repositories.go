package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository           *UserRepository
	CourseRepository         *CourseRepository
	PeriodRepository         *PeriodRepository
	EnrollmentRepository     *EnrollmentRepository
	EvaluationTypeRepository *EvaluationTypeRepository
	GradeRepository          *GradeRepository
	AttendanceRepository     *AttendanceRepository
	ScheduleRepository       *ScheduleRepository
	NotificationRepository   *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(db),
		CourseRepository:         NewCourseRepository(db),
		PeriodRepository:         NewPeriodRepository(db),
		EnrollmentRepository:     NewEnrollmentRepository(db),
		EvaluationTypeRepository: NewEvaluationTypeRepository(db),
		GradeRepository:          NewGradeRepository(db),
		AttendanceRepository:     NewAttendanceRepository(db),
		ScheduleRepository:       NewScheduleRepository(db),
		NotificationRepository:   NewNotificationRepository(db),
	}
}
