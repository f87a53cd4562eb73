package client

import (
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/xavierca1/lynkupro-api/internal/entity"
)

// Filter keys understood by GET /leads.
const (
	FilterStatus      = "status"
	FilterSource      = "source"
	FilterAssignedTo  = "assignedTo"
	FilterProjectType = "projectType"
	FilterMinValue    = "minValue"
	FilterMaxValue    = "maxValue"
	FilterCreatedFrom = "createdFrom"
	FilterCreatedTo   = "createdTo"
	FilterSearch      = "search"
)

var filterKeys = map[string]bool{
	FilterStatus: true, FilterSource: true, FilterAssignedTo: true, FilterProjectType: true,
	FilterMinValue: true, FilterMaxValue: true, FilterCreatedFrom: true, FilterCreatedTo: true,
	FilterSearch: true,
}

// QueryState is the list view's filter, sort and page window.
// Any change to what is being listed sends the view back to page 1.
type QueryState struct {
	filters map[string]string
	sort    string
	page    int
	limit   int
}

func NewQueryState() *QueryState {
	return &QueryState{filters: map[string]string{}, page: 1, limit: entity.DefaultPageSize}
}

// SetFilter sets or, with a blank value, clears one filter.
func (q *QueryState) SetFilter(key, value string) error {
	if !filterKeys[key] {
		return fmt.Errorf("unknown filter %q", key)
	}
	if value == "" {
		delete(q.filters, key)
	} else {
		q.filters[key] = value
	}
	q.page = 1
	return nil
}

func (q *QueryState) Filter(key string) string { return q.filters[key] }

func (q *QueryState) ClearFilters() {
	q.filters = map[string]string{}
	q.page = 1
}

func (q *QueryState) SetSort(sort string) {
	q.sort = sort
	q.page = 1
}

func (q *QueryState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	q.page = page
}

func (q *QueryState) SetLimit(limit int) {
	if limit < 1 {
		limit = entity.DefaultPageSize
	}
	if limit > entity.MaxPageSize {
		limit = entity.MaxPageSize
	}
	q.limit = limit
	q.page = 1
}

func (q *QueryState) Page() int  { return q.page }
func (q *QueryState) Limit() int { return q.limit }

// Params renders the state as query parameters. Unset filters and an
// unset sort are left out.
func (q *QueryState) Params() url.Values {
	v := url.Values{}
	for k, val := range q.filters {
		v.Set(k, val)
	}
	if q.sort != "" {
		v.Set("sort", q.sort)
	}
	v.Set("page", strconv.Itoa(q.page))
	v.Set("limit", strconv.Itoa(q.limit))
	return v
}

// FilterParams is Params without the page window, for stats and export.
func (q *QueryState) FilterParams() url.Values {
	v := q.Params()
	v.Del("page")
	v.Del("limit")
	return v
}

// SearchDebouncer delays free-text search until typing pauses. Each
// instance owns its timer; Stop it when the owning view goes away.
type SearchDebouncer struct {
	delay time.Duration
	apply func(string)

	mu    sync.Mutex
	timer *time.Timer
	gen   int
	last  string
}

func NewSearchDebouncer(delay time.Duration, apply func(string)) *SearchDebouncer {
	return &SearchDebouncer{delay: delay, apply: apply}
}

// Update restarts the wait with the newest text.
func (d *SearchDebouncer) Update(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.last = text
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, text) })
}

func (d *SearchDebouncer) fire(gen int, text string) {
	d.mu.Lock()
	if d.gen != gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.apply(text)
}

// Flush applies a pending update immediately.
func (d *SearchDebouncer) Flush() {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	d.timer = nil
	text := d.last
	d.mu.Unlock()
	d.apply(text)
}

// Stop drops any pending update.
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
