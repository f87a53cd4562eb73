package entity

import (
	"strings"
	"time"
)

// AssignedToUnassigned selects leads nobody owns.
const AssignedToUnassigned = "unassigned"

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
	DefaultSort     = "-createdAt"
)

// LeadFilter narrows a lead listing. Zero values mean "no constraint".
type LeadFilter struct {
	Status      Status
	Source      Source
	AssignedTo  string
	ProjectType ProjectType
	MinValue    *float64
	MaxValue    *float64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Search      string
}

// WantsUnassigned reports whether the filter asks for leads with no owner.
func (f LeadFilter) WantsUnassigned() bool {
	return strings.EqualFold(strings.TrimSpace(f.AssignedTo), AssignedToUnassigned)
}

// ListOptions is the page window and ordering of a listing.
type ListOptions struct {
	Page  int
	Limit int
	Sort  string
}

// Normalize clamps the window to sane defaults.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultPageSize
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	if strings.TrimSpace(o.Sort) == "" {
		o.Sort = DefaultSort
	}
	return o
}

func (o ListOptions) Skip() int64 {
	return int64((o.Page - 1) * o.Limit)
}

// SortableFields are the JSON field names a listing may be ordered by.
var SortableFields = map[string]struct{}{
	"createdAt":   {},
	"updatedAt":   {},
	"value":       {},
	"probability": {},
	"name":        {},
}

// ParseSort splits "-field" into ("field", descending). ok is false for
// fields that cannot be sorted on.
func ParseSort(sort string) (field string, desc bool, ok bool) {
	sort = strings.TrimSpace(sort)
	if strings.HasPrefix(sort, "-") {
		desc = true
		sort = sort[1:]
	}
	_, ok = SortableFields[sort]
	return sort, desc, ok
}

// TotalPages rounds total/limit up.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
