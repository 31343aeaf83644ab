package dto

import "time"

// APIResponse is the envelope of every admin API response
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PaginationInfo describes one page of a list
type PaginationInfo struct {
	Skip  uint64 `json:"skip"`
	Limit uint64 `json:"limit"`
	Count int    `json:"count"`
}

// ListResponse is a page of items
type ListResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// DeletedResponse reports the outcome of a delete
type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

// MembershipResponse reports whether a membership add/remove changed anything
type MembershipResponse struct {
	Changed bool `json:"changed"`
}
