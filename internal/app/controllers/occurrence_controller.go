package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/app/repositories"
	"github.com/churchmanager/scheduler/internal/app/services"
	"github.com/churchmanager/scheduler/internal/middleware"
	"github.com/churchmanager/scheduler/internal/pkg/helpers"
)

// OccurrenceController handles occurrence and assignment creation
type OccurrenceController struct {
	scheduleService services.ScheduleService
}

// NewOccurrenceController creates a new OccurrenceController
func NewOccurrenceController(scheduleService services.ScheduleService) *OccurrenceController {
	return &OccurrenceController{
		scheduleService: scheduleService,
	}
}

// ListOccurrences lists occurrences between two dates
// @Summary Occurrences in range
// @Tags occurrences
// @Produce json
// @Security BearerAuth
// @Param start query string true "From date (YYYY-MM-DD)"
// @Param end query string true "To date (YYYY-MM-DD)"
// @Param ministry_id query string false "Only this ministry"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleOccurrence}
// @Router /api/v1/occurrences [get]
func (c *OccurrenceController) ListOccurrences(ctx *gin.Context) {
	var req dto.DateRangeRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	start, end, ministryID, ok := dateRange(ctx, &req)
	if !ok {
		return
	}

	occurrences, err := c.scheduleService.GetOccurrencesInRange(ctx, start, end, ministryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, occurrences)
}

// ListByDate lists the occurrences held on one day
// @Summary Occurrences on a date
// @Tags occurrences
// @Produce json
// @Security BearerAuth
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param ministry_id query string false "Only this ministry"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleOccurrence}
// @Router /api/v1/occurrences/by-date [get]
func (c *OccurrenceController) ListByDate(ctx *gin.Context) {
	var req dto.OccurrencesByDateRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ministryID, err := helpers.ParseOptionalUUID("ministry_id", req.MinistryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	occurrences, err := c.scheduleService.GetOccurrencesByDate(ctx, date, ministryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, occurrences)
}

// ListUpcoming lists occurrences from today on
// @Summary Upcoming occurrences
// @Tags occurrences
// @Produce json
// @Security BearerAuth
// @Param days query int false "Days ahead (default 30)"
// @Param ministry_id query string false "Only this ministry"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleOccurrence}
// @Router /api/v1/occurrences/upcoming [get]
func (c *OccurrenceController) ListUpcoming(ctx *gin.Context) {
	var req dto.UpcomingRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	ministryID, err := helpers.ParseOptionalUUID("ministry_id", req.MinistryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	days := repositories.DefaultDaysAhead
	if req.Days != nil {
		days = *req.Days
	}

	occurrences, err := c.scheduleService.GetUpcomingOccurrences(ctx, days, ministryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, occurrences)
}

// GetOccurrence retrieves an occurrence with its schedule and assignments
// @Summary Get an occurrence
// @Tags occurrences
// @Produce json
// @Security BearerAuth
// @Param id path string true "Occurrence ID"
// @Success 200 {object} dto.APIResponse{data=models.ScheduleOccurrence}
// @Failure 404 {object} dto.ErrorResponse "Occurrence not found"
// @Router /api/v1/occurrences/{id} [get]
func (c *OccurrenceController) GetOccurrence(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	occurrence, err := c.scheduleService.GetOccurrence(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, occurrence)
}

// RescheduleOccurrence moves an occurrence to another date
// @Summary Reschedule an occurrence
// @Tags occurrences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Occurrence ID"
// @Param request body dto.RescheduleRequest true "New date"
// @Success 200 {object} dto.APIResponse{data=models.ScheduleOccurrence}
// @Failure 409 {object} dto.ErrorResponse "Date already scheduled"
// @Router /api/v1/occurrences/{id}/date [put]
func (c *OccurrenceController) RescheduleOccurrence(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.RescheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	occurrence, err := c.scheduleService.RescheduleOccurrence(ctx, id, date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, occurrence)
}

// DeleteOccurrence removes an occurrence and its assignments
// @Summary Delete an occurrence
// @Tags occurrences
// @Produce json
// @Security BearerAuth
// @Param id path string true "Occurrence ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse}
// @Router /api/v1/occurrences/{id} [delete]
func (c *OccurrenceController) DeleteOccurrence(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	if err := c.scheduleService.DeleteOccurrence(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.DeletedResponse{Deleted: true})
}

// ListAssignments lists the assignments of an occurrence
// @Summary Occurrence assignments
// @Tags occurrences
// @Produce json
// @Security BearerAuth
// @Param id path string true "Occurrence ID"
// @Param role query string false "Only this role"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleAssignment}
// @Router /api/v1/occurrences/{id}/assignments [get]
func (c *OccurrenceController) ListAssignments(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.OccurrenceAssignmentsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	assignments, err := c.scheduleService.GetOccurrenceAssignments(ctx, id, models.RoleCode(req.RoleCode))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, assignments)
}

// AssignUser assigns one user to the occurrence
// @Summary Assign a user
// @Tags occurrences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Occurrence ID"
// @Param request body dto.CreateAssignmentRequest true "Assignment"
// @Success 201 {object} dto.APIResponse{data=models.ScheduleAssignment}
// @Failure 409 {object} dto.ErrorResponse "User already holds the role or cannot be scheduled"
// @Router /api/v1/occurrences/{id}/assignments [post]
func (c *OccurrenceController) AssignUser(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	assignment, err := c.scheduleService.AssignUser(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, assignment)
}

// BulkAssign assigns several users in order. Assignments created before a
// failure are kept and reported next to the error.
// @Summary Assign several users
// @Tags occurrences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Occurrence ID"
// @Param request body dto.BulkAssignRequest true "Assignments"
// @Success 201 {object} dto.APIResponse{data=dto.BulkAssignResponse}
// @Failure 409 {object} dto.APIResponse{data=dto.BulkAssignResponse} "Stopped early, data.created holds what was kept"
// @Router /api/v1/occurrences/{id}/assignments/bulk [post]
func (c *OccurrenceController) BulkAssign(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.BulkAssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	created, err := c.scheduleService.BulkAssign(ctx, id, req.Assignments)
	if err == nil {
		respond(ctx, http.StatusCreated, dto.BulkAssignResponse{Created: created})
		return
	}
	if len(created) == 0 {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status, detail := middleware.ErrorDetail(err)
	ctx.AbortWithStatusJSON(status, dto.APIResponse{
		Success:   false,
		Data:      dto.BulkAssignResponse{Created: created, Error: detail},
		Error:     detail,
		Timestamp: time.Now(),
	})
}
