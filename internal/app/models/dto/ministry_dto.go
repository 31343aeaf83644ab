package dto

import "github.com/google/uuid"

// CreateMinistryRequest represents ministry creation data
type CreateMinistryRequest struct {
	Name     string     `json:"name" binding:"required,max=100"`
	LeaderID *uuid.UUID `json:"leaderId"`
	IsActive *bool      `json:"isActive"`
}

// UpdateMinistryRequest carries the fields to change; absent fields are kept
type UpdateMinistryRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	IsActive *bool   `json:"isActive"`
}

// SetLeaderRequest appoints a leader; a null leaderId clears it
type SetLeaderRequest struct {
	LeaderID *uuid.UUID `json:"leaderId"`
}

// MinistryFilterRequest represents ministry list parameters
type MinistryFilterRequest struct {
	ListQuery
	IsActive *bool `form:"is_active"`
}

// MinistrySearchRequest represents a ministry name search
type MinistrySearchRequest struct {
	Query      string `form:"q" binding:"required"`
	OnlyActive *bool  `form:"only_active"`
}

// MinistryMembersRequest selects the members of a ministry
type MinistryMembersRequest struct {
	OnlyActive *bool `form:"only_active"`
}

// MinistrySchedulesRequest caps the schedules listed for a ministry
type MinistrySchedulesRequest struct {
	Limit      uint64 `form:"limit" binding:"omitempty,max=100"`
	ActiveOnly *bool  `form:"active_only"`
}

// MemberCountResponse reports how many members a ministry has
type MemberCountResponse struct {
	MinistryID string `json:"ministryId"`
	Count      int64  `json:"count"`
}

// UserMinistriesResponse splits a user's ministries into memberships and leadership
type UserMinistriesResponse struct {
	MemberOf interface{} `json:"memberOf"`
	Leads    interface{} `json:"leads"`
}
