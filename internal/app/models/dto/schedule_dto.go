package dto

import "github.com/google/uuid"

// CreateScheduleRequest creates a schedule, optionally with its occurrence dates
type CreateScheduleRequest struct {
	MinistryID      uuid.UUID `json:"ministryId" binding:"required"`
	Title           string    `json:"title" binding:"required,max=200"`
	Notes           *string   `json:"notes"`
	StartDate       string    `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate         string    `json:"endDate" binding:"required,datetime=2006-01-02"`
	OccurrenceDates []string  `json:"occurrenceDates" binding:"omitempty,dive,datetime=2006-01-02"`
}

// OccurrencesByDateRequest selects the occurrences held on one day
type OccurrencesByDateRequest struct {
	Date       string `form:"date" binding:"required,datetime=2006-01-02"`
	MinistryID string `form:"ministry_id" binding:"omitempty,uuid"`
}

// AddOccurrenceRequest adds one date to a schedule
type AddOccurrenceRequest struct {
	Date  string  `json:"date" binding:"required,datetime=2006-01-02"`
	Notes *string `json:"notes"`
}

// RescheduleRequest moves an occurrence to another date
type RescheduleRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
}

// CreateAssignmentRequest assigns a user to an occurrence
type CreateAssignmentRequest struct {
	UserID     uuid.UUID `json:"userId" binding:"required"`
	RoleCode   string    `json:"roleCode" binding:"required,rolecode"`
	StatusCode string    `json:"statusCode" binding:"omitempty,statuscode"`
	Notes      *string   `json:"notes"`
}

// BulkAssignItem is one assignment of a bulk request
type BulkAssignItem struct {
	UserID   uuid.UUID `json:"userId" binding:"required"`
	RoleCode string    `json:"roleCode" binding:"required,rolecode"`
	Notes    *string   `json:"notes"`
}

// BulkAssignRequest assigns several users to one occurrence
type BulkAssignRequest struct {
	Assignments []BulkAssignItem `json:"assignments" binding:"required,min=1,dive"`
}

// BulkAssignResponse lists what was created; Error is set when the batch stopped early
type BulkAssignResponse struct {
	Created interface{}  `json:"created"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// OccurrenceAssignmentsRequest filters an occurrence's assignments by role
type OccurrenceAssignmentsRequest struct {
	RoleCode string `form:"role" binding:"omitempty,rolecode"`
}

// UpdateStatusRequest moves an assignment along its lifecycle
type UpdateStatusRequest struct {
	StatusCode string  `json:"statusCode" binding:"required,statuscode"`
	Notes      *string `json:"notes"`
}

// NotifyRequest sends a WhatsApp message to an assignee
type NotifyRequest struct {
	Message string `json:"message" binding:"required,max=4096"`
	Session string `json:"session"`
}

// NotifyResponse reports whether the message was accepted by the gateway
type NotifyResponse struct {
	Sent   bool   `json:"sent"`
	ChatID string `json:"chatId"`
}
