package dto

// CreateUserRequest represents user creation data
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,max=50"`
	Email       string `json:"email" binding:"required,email,max=100"`
	PhoneNumber string `json:"phoneNumber" binding:"required,max=20"`
	FirstName   string `json:"firstName" binding:"required,max=50"`
	LastName    string `json:"lastName" binding:"required,max=50"`
	IsActive    *bool  `json:"isActive"`
	IsAvailable *bool  `json:"isAvailable"`
}

// UpdateUserRequest carries the fields to change; absent fields are kept
type UpdateUserRequest struct {
	Username    *string `json:"username" binding:"omitempty,min=1,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=100"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,min=1,max=20"`
	FirstName   *string `json:"firstName" binding:"omitempty,min=1,max=50"`
	LastName    *string `json:"lastName" binding:"omitempty,min=1,max=50"`
	IsActive    *bool   `json:"isActive"`
	IsAvailable *bool   `json:"isAvailable"`
}

// UpdateAvailabilityRequest toggles whether a user can be scheduled
type UpdateAvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

// UserFilterRequest represents user list parameters
type UserFilterRequest struct {
	ListQuery
	IsActive    *bool `form:"is_active"`
	IsAvailable *bool `form:"is_available"`
}

// UserSearchRequest represents a free-text user search
type UserSearchRequest struct {
	Query      string `form:"q" binding:"required"`
	Limit      uint64 `form:"limit" binding:"omitempty,max=100"`
	OnlyActive *bool  `form:"only_active"`
}

// AvailableUsersRequest selects users free on a date
type AvailableUsersRequest struct {
	Date       string `form:"date" binding:"required,datetime=2006-01-02"`
	MinistryID string `form:"ministry_id" binding:"omitempty,uuid"`
}

// UserAssignmentsRequest bounds a user's schedule
type UserAssignmentsRequest struct {
	Start  string   `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End    string   `form:"end" binding:"omitempty,datetime=2006-01-02"`
	Status []string `form:"status" binding:"omitempty,dive,statuscode"`
}
