package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/app/services"
	"github.com/churchmanager/scheduler/internal/middleware"
	"github.com/churchmanager/scheduler/internal/pkg/helpers"
)

// MinistryController handles ministry-related operations
type MinistryController struct {
	ministryService services.MinistryService
}

// NewMinistryController creates a new MinistryController
func NewMinistryController(ministryService services.MinistryService) *MinistryController {
	return &MinistryController{
		ministryService: ministryService,
	}
}

// CreateMinistry creates a ministry
// @Summary Create a ministry
// @Tags ministries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMinistryRequest true "Ministry information"
// @Success 201 {object} dto.APIResponse{data=models.Ministry}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown leader"
// @Failure 409 {object} dto.ErrorResponse "Ministry name already used"
// @Router /api/v1/ministries [post]
func (c *MinistryController) CreateMinistry(ctx *gin.Context) {
	var req dto.CreateMinistryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	ministry, err := c.ministryService.CreateMinistry(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, ministry)
}

// ListMinistries lists ministries
// @Summary List ministries
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Page size (default 100)"
// @Param order_by query string false "Field to order by, prefix with - for descending"
// @Param is_active query bool false "Filter by active flag"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse}
// @Router /api/v1/ministries [get]
func (c *MinistryController) ListMinistries(ctx *gin.Context) {
	var req dto.MinistryFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	ministries, err := c.ministryService.ListMinistries(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondList(ctx, ministries, len(ministries), req.ListQuery)
}

// ListActiveMinistries lists the active ministries by name
// @Summary Active ministries
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Ministry}
// @Router /api/v1/ministries/active [get]
func (c *MinistryController) ListActiveMinistries(ctx *gin.Context) {
	ministries, err := c.ministryService.GetActiveMinistries(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ministries)
}

// SearchMinistries searches ministries by name
// @Summary Search ministries
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search text"
// @Param only_active query bool false "Only active ministries (default true)"
// @Success 200 {object} dto.APIResponse{data=[]models.Ministry}
// @Router /api/v1/ministries/search [get]
func (c *MinistryController) SearchMinistries(ctx *gin.Context) {
	var req dto.MinistrySearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	ministries, err := c.ministryService.SearchMinistries(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ministries)
}

// GetMinistry retrieves a ministry with its leader, members and schedules
// @Summary Get a ministry
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ministry ID"
// @Success 200 {object} dto.APIResponse{data=models.Ministry}
// @Failure 404 {object} dto.ErrorResponse "Ministry not found"
// @Router /api/v1/ministries/{id} [get]
func (c *MinistryController) GetMinistry(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	ministry, err := c.ministryService.GetMinistry(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ministry)
}

// UpdateMinistry renames or (de)activates a ministry
// @Summary Update a ministry
// @Tags ministries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ministry ID"
// @Param request body dto.UpdateMinistryRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Ministry}
// @Router /api/v1/ministries/{id} [put]
func (c *MinistryController) UpdateMinistry(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateMinistryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	ministry, err := c.ministryService.UpdateMinistry(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ministry)
}

// DeleteMinistry removes a ministry with its memberships and schedules
// @Summary Delete a ministry
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ministry ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse}
// @Router /api/v1/ministries/{id} [delete]
func (c *MinistryController) DeleteMinistry(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	if err := c.ministryService.DeleteMinistry(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.DeletedResponse{Deleted: true})
}

// SetLeader appoints or clears the leader
// @Summary Set the ministry leader
// @Tags ministries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ministry ID"
// @Param request body dto.SetLeaderRequest true "Leader, null to clear"
// @Success 200 {object} dto.APIResponse{data=models.Ministry}
// @Failure 400 {object} dto.ErrorResponse "Unknown user"
// @Router /api/v1/ministries/{id}/leader [put]
func (c *MinistryController) SetLeader(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.SetLeaderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	ministry, err := c.ministryService.SetLeader(ctx, id, req.LeaderID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ministry)
}

// AddMember adds a user to the ministry
// @Summary Add a member
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ministry ID"
// @Param userId path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse} "changed is false when already a member"
// @Router /api/v1/ministries/{id}/members/{userId} [post]
func (c *MinistryController) AddMember(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := pathUUID(ctx, "userId")
	if !ok {
		return
	}

	added, err := c.ministryService.AddMember(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.MembershipResponse{Changed: added})
}

// RemoveMember removes a user from the ministry
// @Summary Remove a member
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ministry ID"
// @Param userId path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse} "changed is false when not a member"
// @Router /api/v1/ministries/{id}/members/{userId} [delete]
func (c *MinistryController) RemoveMember(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := pathUUID(ctx, "userId")
	if !ok {
		return
	}

	removed, err := c.ministryService.RemoveMember(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.MembershipResponse{Changed: removed})
}

// GetMembers lists the members of a ministry
// @Summary Ministry members
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ministry ID"
// @Param only_active query bool false "Only active members (default true)"
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Router /api/v1/ministries/{id}/members [get]
func (c *MinistryController) GetMembers(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.MinistryMembersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	members, err := c.ministryService.GetMembers(ctx, id, helpers.BoolOr(req.OnlyActive, true))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, members)
}

// GetMemberCount counts the members of a ministry
// @Summary Ministry member count
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ministry ID"
// @Success 200 {object} dto.APIResponse{data=dto.MemberCountResponse}
// @Failure 404 {object} dto.ErrorResponse "Ministry not found"
// @Router /api/v1/ministries/{id}/members/count [get]
func (c *MinistryController) GetMemberCount(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	count, err := c.ministryService.GetMemberCount(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.MemberCountResponse{MinistryID: id.String(), Count: count})
}

// GetUserMinistries lists the ministries a member belongs to and leads
// @Summary A member's ministries
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param only_active query bool false "Only active ministries (default true)"
// @Success 200 {object} dto.APIResponse{data=dto.UserMinistriesResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/v1/users/{id}/ministries [get]
func (c *MinistryController) GetUserMinistries(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.MinistryMembersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	ministries, err := c.ministryService.GetUserMinistries(ctx, id, helpers.BoolOr(req.OnlyActive, true))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ministries)
}

// GetSchedules lists the latest schedules of a ministry
// @Summary Ministry schedules
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ministry ID"
// @Param limit query int false "Maximum schedules (default 10)"
// @Param active_only query bool false "Skip schedules that already ended"
// @Success 200 {object} dto.APIResponse{data=[]models.Schedule}
// @Router /api/v1/ministries/{id}/schedules [get]
func (c *MinistryController) GetSchedules(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}
	var req dto.MinistrySchedulesRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	schedules, err := c.ministryService.GetSchedules(ctx, id, helpers.BoolOr(req.ActiveOnly, false), req.Limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, schedules)
}

// DeactivateMinistry stops new schedules for a ministry
// @Summary Deactivate a ministry
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ministry ID"
// @Success 200 {object} dto.APIResponse{data=models.Ministry}
// @Router /api/v1/ministries/{id}/deactivate [post]
func (c *MinistryController) DeactivateMinistry(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	ministry, err := c.ministryService.DeactivateMinistry(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ministry)
}

// ReactivateMinistry
// @Summary Reactivate a ministry
// @Tags ministries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ministry ID"
// @Success 200 {object} dto.APIResponse{data=models.Ministry}
// @Router /api/v1/ministries/{id}/reactivate [post]
func (c *MinistryController) ReactivateMinistry(ctx *gin.Context) {
	id, ok := pathUUID(ctx, "id")
	if !ok {
		return
	}

	ministry, err := c.ministryService.ReactivateMinistry(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ministry)
}
