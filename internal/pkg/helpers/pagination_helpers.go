package helpers

import (
	"github.com/churchmanager/scheduler/internal/app/models/dto"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// NormalizeLimit applies the default page size and caps it
func NormalizeLimit(limit uint64) uint64 {
	if limit == 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NewPaginationInfo creates a standard PaginationInfo DTO for a page of count items
func NewPaginationInfo(skip, limit uint64, count int) dto.PaginationInfo {
	return dto.PaginationInfo{
		Skip:  skip,
		Limit: NormalizeLimit(limit),
		Count: count,
	}
}

// BoolOr dereferences b, falling back to def when it is nil
func BoolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
