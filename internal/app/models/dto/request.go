package dto

// ListQuery is the paging and ordering part of list endpoints
type ListQuery struct {
	Skip    uint64 `form:"skip"`
	Limit   uint64 `form:"limit" binding:"omitempty,max=1000"`
	OrderBy string `form:"order_by"`
}

// DateRangeRequest selects records between two dates, optionally for one ministry
type DateRangeRequest struct {
	Start      string `form:"start" binding:"required,datetime=2006-01-02"`
	End        string `form:"end" binding:"required,datetime=2006-01-02"`
	MinistryID string `form:"ministry_id" binding:"omitempty,uuid"`
}

// UpcomingRequest selects occurrences from today on
type UpcomingRequest struct {
	Days       *int   `form:"days" binding:"omitempty,min=0,max=366"`
	MinistryID string `form:"ministry_id" binding:"omitempty,uuid"`
}
