package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edunova/academia/internal/app/controllers"
	"github.com/edunova/academia/internal/app/models"
	"github.com/edunova/academia/internal/app/models/dto"
	"github.com/edunova/academia/internal/middleware"
)

// Controllers groups the controller instances routed by SetupRouter.
type Controllers struct {
	Auth         *controllers.AuthController
	Course       *controllers.CourseController
	Period       *controllers.PeriodController
	Enrollment   *controllers.EnrollmentController
	Grade        *controllers.GradeController
	Attendance   *controllers.AttendanceController
	Schedule     *controllers.ScheduleController
	Notification *controllers.NotificationController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/register/student", c.Auth.RegisterStudent)
	}

	v1.GET("/courses", c.Course.GetAllCourses)
	v1.GET("/courses/:id", c.Course.GetCourse)
	v1.GET("/periods", c.Period.GetAllPeriods)
	v1.GET("/periods/active", c.Period.GetActivePeriod)
	v1.GET("/schedule", c.Schedule.GetSchedule)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Admin-only catalog and period management
		admin := authenticated.Group("")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.POST("/auth/register/teacher", c.Auth.RegisterTeacher)
			admin.POST("/courses", c.Course.CreateCourse)
			admin.PUT("/courses/:id", c.Course.UpdateCourse)
			admin.POST("/periods", c.Period.CreatePeriod)
			admin.POST("/periods/:id/activate", c.Period.ActivatePeriod)

			admin.POST("/schedule/slots", c.Schedule.CreateSlot)
			admin.POST("/schedule/validate", c.Schedule.ValidateSlot)
			admin.POST("/schedule/build", c.Schedule.BuildSchedule)
			admin.DELETE("/schedule/slots/:id", c.Schedule.DeleteSlot)
			admin.DELETE("/schedule", c.Schedule.ClearSchedule)
		}

		// Enrollment lifecycle, open to admins and students
		enrollments := authenticated.Group("/enrollments")
		enrollments.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleStudent))
		{
			enrollments.POST("", c.Enrollment.Enroll)
			enrollments.POST("/:id/withdraw", c.Enrollment.Withdraw)
		}
		authenticated.GET("/students/:studentId/courses/:courseId/prerequisites", c.Enrollment.CheckPrerequisites)
		authenticated.GET("/enrollments/:id/average", c.Grade.GetEnrollmentAverage)

		// Grading and attendance, teacher or admin
		teaching := authenticated.Group("")
		teaching.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher))
		{
			teaching.PUT("/courses/:id/evaluation-types", c.Grade.ConfigureEvaluationTypes)
			teaching.GET("/courses/:id/evaluation-types", c.Grade.GetEvaluationTypes)
			teaching.POST("/courses/:id/grades", c.Grade.RecordGrades)

			teaching.POST("/attendance", c.Attendance.RecordAttendance)
			teaching.POST("/attendance/batch", c.Attendance.RecordBatchAttendance)
			teaching.GET("/courses/:id/attendance/summary", c.Attendance.GetCourseSummary)
		}

		// Notifications for the authenticated user
		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", c.Notification.ListNotifications)
			notifications.POST("/:id/read", c.Notification.MarkNotificationRead)
			notifications.GET("/ws", c.Notification.Subscribe)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})
}
