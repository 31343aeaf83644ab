package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/churchmanager/scheduler/internal/app/controllers"
	"github.com/churchmanager/scheduler/internal/middleware"
	"github.com/churchmanager/scheduler/internal/pkg/auth"
)

// SetupRouter configures the admin API and the WAHA webhook routes
func SetupRouter(
	router *gin.Engine,
	userController *controllers.UserController,
	ministryController *controllers.MinistryController,
	scheduleController *controllers.ScheduleController,
	occurrenceController *controllers.OccurrenceController,
	assignmentController *controllers.AssignmentController,
	wahaController *controllers.WahaController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- WAHA gateway routes, unauthenticated ---
	waha := router.Group("/waha")
	{
		waha.POST("/webhook", wahaController.Webhook)
		waha.GET("/health", wahaController.Health)
	}

	// --- Admin API, admin tokens only ---
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(auth.RoleAdmin))

	users := v1.Group("/users")
	{
		users.POST("", userController.CreateUser)
		users.GET("", userController.ListUsers)
		users.GET("/search", userController.SearchUsers)
		users.GET("/available", userController.GetAvailableUsers)
		users.GET("/:id", userController.GetUser)
		users.PUT("/:id", userController.UpdateUser)
		users.DELETE("/:id", userController.DeleteUser)
		users.PUT("/:id/availability", userController.UpdateAvailability)
		users.POST("/:id/deactivate", userController.DeactivateUser)
		users.GET("/:id/assignments", userController.GetUserAssignments)
		users.GET("/:id/ministries", ministryController.GetUserMinistries)
	}

	ministries := v1.Group("/ministries")
	{
		ministries.POST("", ministryController.CreateMinistry)
		ministries.GET("", ministryController.ListMinistries)
		ministries.GET("/active", ministryController.ListActiveMinistries)
		ministries.GET("/search", ministryController.SearchMinistries)
		ministries.GET("/:id", ministryController.GetMinistry)
		ministries.PUT("/:id", ministryController.UpdateMinistry)
		ministries.DELETE("/:id", ministryController.DeleteMinistry)
		ministries.PUT("/:id/leader", ministryController.SetLeader)
		ministries.GET("/:id/members", ministryController.GetMembers)
		ministries.GET("/:id/members/count", ministryController.GetMemberCount)
		ministries.POST("/:id/members/:userId", ministryController.AddMember)
		ministries.DELETE("/:id/members/:userId", ministryController.RemoveMember)
		ministries.GET("/:id/schedules", ministryController.GetSchedules)
		ministries.POST("/:id/deactivate", ministryController.DeactivateMinistry)
		ministries.POST("/:id/reactivate", ministryController.ReactivateMinistry)
	}

	schedules := v1.Group("/schedules")
	{
		schedules.POST("", scheduleController.CreateSchedule)
		schedules.GET("", scheduleController.ListSchedules)
		schedules.GET("/:id", scheduleController.GetSchedule)
		schedules.DELETE("/:id", scheduleController.DeleteSchedule)
		schedules.POST("/:id/occurrences", scheduleController.AddOccurrence)
	}

	occurrences := v1.Group("/occurrences")
	{
		occurrences.GET("", occurrenceController.ListOccurrences)
		occurrences.GET("/upcoming", occurrenceController.ListUpcoming)
		occurrences.GET("/by-date", occurrenceController.ListByDate)
		occurrences.GET("/:id", occurrenceController.GetOccurrence)
		occurrences.DELETE("/:id", occurrenceController.DeleteOccurrence)
		occurrences.PUT("/:id/date", occurrenceController.RescheduleOccurrence)
		occurrences.GET("/:id/assignments", occurrenceController.ListAssignments)
		occurrences.POST("/:id/assignments", occurrenceController.AssignUser)
		occurrences.POST("/:id/assignments/bulk", occurrenceController.BulkAssign)
	}

	assignments := v1.Group("/assignments")
	{
		assignments.GET("/statistics", assignmentController.GetStatistics)
		assignments.PUT("/:id/status", assignmentController.UpdateStatus)
		assignments.POST("/:id/notify", assignmentController.Notify)
	}
}
