package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/app/services"
	"github.com/churchmanager/scheduler/internal/middleware"
	"github.com/churchmanager/scheduler/internal/pkg/helpers"
)

// ScheduleController handles schedule-related operations
type ScheduleController struct {
	scheduleService services.ScheduleService
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService services.ScheduleService) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
	}
}

// CreateSchedule creates a schedule, with its occurrences when dates are given
// @Summary Create a schedule
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateScheduleRequest true "Schedule information"
// @Success 201 {object} dto.APIResponse{data=models.Schedule}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Ministry not found"
// @Failure 409 {object} dto.ErrorResponse "Ministry is not active"
// @Router /api/v1/schedules [post]
func (c *ScheduleController) CreateSchedule(ctx *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	schedule, err := c.scheduleService.CreateSchedule(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, schedule)
}

// ListSchedules lists schedules overlapping a date range
// @Summary Schedules in range
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param start query string true "From date (YYYY-MM-DD)"
// @Param end query string true "To date (YYYY-MM-DD)"
// @Param ministry_id query string false "Only this ministry"
// @Success 200 {object} dto.APIResponse{data=[]models.Schedule}
// @Router /api/v1/schedules [get]
func (c *ScheduleController) ListSchedules(ctx *gin.Context) {
	var req dto.DateRangeRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	start, end, ministryID, ok := dateRange(ctx, &req)
	if !ok {
		return
	}

	schedules, err := c.scheduleService.GetSchedulesInRange(ctx, start, end, ministryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, schedules)
}

// GetSchedule retrieves a schedule with its ministry and occurrences
// @Summary Get a schedule
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} dto.APIResponse{data=models.Schedule}
// @Failure 404 {object} dto.ErrorResponse "Schedule not found"
// @Router /api/v1/schedules/{id} [get]
func (c *ScheduleController) GetSchedule(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	schedule, err := c.scheduleService.GetSchedule(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, schedule)
}

// DeleteSchedule
// @Summary Delete a schedule with its occurrences and assignments
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse}
// @Router /api/v1/schedules/{id} [delete]
func (c *ScheduleController) DeleteSchedule(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	if err := c.scheduleService.DeleteSchedule(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.DeletedResponse{Deleted: true})
}

// AddOccurrence adds a date to a schedule
// @Summary Add an occurrence
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param request body dto.AddOccurrenceRequest true "Occurrence"
// @Success 201 {object} dto.APIResponse{data=models.ScheduleOccurrence}
// @Failure 400 {object} dto.ErrorResponse "Date outside the schedule"
// @Failure 409 {object} dto.ErrorResponse "Date already scheduled"
// @Router /api/v1/schedules/{id}/occurrences [post]
func (c *ScheduleController) AddOccurrence(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.AddOccurrenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	occurrence, err := c.scheduleService.AddOccurrence(ctx, id, date, req.Notes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, occurrence)
}
