package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/app/services"
	"github.com/churchmanager/scheduler/internal/middleware"
)

// AssignmentController handles assignment lifecycle and notification
type AssignmentController struct {
	scheduleService services.ScheduleService
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(scheduleService services.ScheduleService) *AssignmentController {
	return &AssignmentController{
		scheduleService: scheduleService,
	}
}

// UpdateStatus moves an assignment to another status
// @Summary Update assignment status
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.ScheduleAssignment}
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /api/v1/assignments/{id}/status [put]
func (c *AssignmentController) UpdateStatus(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	assignment, err := c.scheduleService.UpdateAssignmentStatus(ctx, id, models.StatusCode(req.StatusCode), req.Notes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, assignment)
}

// Notify sends the assignee a WhatsApp message
// @Summary Notify the assignee
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param request body dto.NotifyRequest true "Message"
// @Success 200 {object} dto.APIResponse{data=dto.NotifyResponse}
// @Failure 502 {object} dto.ErrorResponse "Gateway did not accept the message"
// @Router /api/v1/assignments/{id}/notify [post]
func (c *AssignmentController) Notify(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.NotifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.scheduleService.NotifyAssignee(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, result)
}

// GetStatistics counts assignments by status over a date range
// @Summary Assignment statistics
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param start query string true "From date (YYYY-MM-DD)"
// @Param end query string true "To date (YYYY-MM-DD)"
// @Param ministry_id query string false "Only this ministry"
// @Success 200 {object} dto.APIResponse{data=models.AssignmentStatistics}
// @Router /api/v1/assignments/statistics [get]
func (c *AssignmentController) GetStatistics(ctx *gin.Context) {
	var req dto.DateRangeRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	start, end, ministryID, ok := dateRange(ctx, &req)
	if !ok {
		return
	}

	stats, err := c.scheduleService.GetStatistics(ctx, start, end, ministryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, stats)
}
