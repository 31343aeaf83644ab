package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/churchmanager/scheduler/internal/app/models/dto"
	"github.com/churchmanager/scheduler/internal/middleware"
	"github.com/churchmanager/scheduler/internal/pkg/helpers"
)

// pathUUID reads a UUID path parameter, answering 400 when it is malformed
func pathUUID(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := helpers.ParseUUID(name, ctx.Param(name))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return uuid.Nil, false
	}
	return id, true
}

// dateRange parses the start/end/ministry_id query of range endpoints
func dateRange(ctx *gin.Context, req *dto.DateRangeRequest) (start, end time.Time, ministryID *uuid.UUID, ok bool) {
	s, e, err := helpers.DateRange(req.Start, req.End)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return start, end, nil, false
	}
	ministryID, err = helpers.ParseOptionalUUID("ministry_id", req.MinistryID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return start, end, nil, false
	}
	return s, e, ministryID, true
}

func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, dto.NewSuccessResponse(data))
}

func respondList(ctx *gin.Context, items interface{}, count int, query dto.ListQuery) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(query.Skip, query.Limit, count),
	}))
}
