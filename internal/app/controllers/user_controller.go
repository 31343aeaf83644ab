package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/app/services"
	"github.com/churchmanager/scheduler/internal/middleware"
	"github.com/churchmanager/scheduler/internal/pkg/helpers"
)

// UserController handles member-related operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// CreateUser registers a member
// @Summary Create a member
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Member information"
// @Success 201 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Username, email or phone number already used"
// @Router /api/v1/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.CreateUser(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, user)
}

// ListUsers lists members
// @Summary List members
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Page size (default 100)"
// @Param order_by query string false "Field to order by, prefix with - for descending"
// @Param is_active query bool false "Filter by active flag"
// @Param is_available query bool false "Filter by availability"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Router /api/v1/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	var req dto.UserFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	users, err := c.userService.ListUsers(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondList(ctx, users, len(users), req.ListQuery)
}

// SearchUsers searches members by name, username, email or phone number
// @Summary Search members
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search text"
// @Param limit query int false "Maximum results (default 10)"
// @Param only_active query bool false "Only active members (default true)"
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Router /api/v1/users/search [get]
func (c *UserController) SearchUsers(ctx *gin.Context) {
	var req dto.UserSearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	users, err := c.userService.SearchUsers(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, users)
}

// GetAvailableUsers lists members free to serve on a date
// @Summary Members available on a date
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param ministry_id query string false "Restrict to members of this ministry"
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Router /api/v1/users/available [get]
func (c *UserController) GetAvailableUsers(ctx *gin.Context) {
	var req dto.AvailableUsersRequest
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

	users, err := c.userService.GetAvailableUsers(ctx, date, ministryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, users)
}

// GetUser retrieves a member with memberships and assignments
// @Summary Get a member
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/v1/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetUser(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, user)
}

// UpdateUser changes a member's fields
// @Summary Update a member
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Username, email or phone number already used"
// @Router /api/v1/users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.UpdateUser(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, user)
}

// DeleteUser removes a member
// @Summary Delete a member
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/v1/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.DeletedResponse{Deleted: true})
}

// UpdateAvailability toggles whether a member can be scheduled
// @Summary Set availability
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body dto.UpdateAvailabilityRequest true "Availability"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Router /api/v1/users/{id}/availability [put]
func (c *UserController) UpdateAvailability(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.SetAvailability(ctx, id, *req.IsAvailable)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, user)
}

// DeactivateUser makes a member inactive and unavailable
// @Summary Deactivate a member
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Router /api/v1/users/{id}/deactivate [post]
func (c *UserController) DeactivateUser(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.DeactivateUser(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, user)
}

// GetUserAssignments lists a member's assignments
// @Summary A member's schedule
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param start query string false "From date (YYYY-MM-DD)"
// @Param end query string false "To date (YYYY-MM-DD)"
// @Param status query []string false "Statuses to include" collectionFormat(multi)
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleAssignment}
// @Router /api/v1/users/{id}/assignments [get]
func (c *UserController) GetUserAssignments(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UserAssignmentsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	start, err := helpers.ParseOptionalDate(req.Start)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	end, err := helpers.ParseOptionalDate(req.End)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	statuses := make([]models.StatusCode, 0, len(req.Status))
	for _, s := range req.Status {
		statuses = append(statuses, models.StatusCode(s))
	}

	assignments, err := c.userService.GetUserAssignments(ctx, id, start, end, statuses)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, assignments)
}
