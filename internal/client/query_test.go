package client

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryStateDefaults(t *testing.T) {
	q := NewQueryState()

	p := q.Params()
	assert.Equal(t, "1", p.Get("page"))
	assert.Equal(t, "25", p.Get("limit"))
	assert.Len(t, p, 2)
}

func TestQueryStateFilterChangeResetsPage(t *testing.T) {
	q := NewQueryState()
	q.SetPage(4)

	require.NoError(t, q.SetFilter(FilterStatus, "qualified"))

	assert.Equal(t, 1, q.Page())
	assert.Equal(t, "qualified", q.Params().Get("status"))
}

func TestQueryStateLimitChangeResetsPage(t *testing.T) {
	q := NewQueryState()
	q.SetPage(3)

	q.SetLimit(50)

	assert.Equal(t, 1, q.Page())
	assert.Equal(t, 50, q.Limit())

	q.SetLimit(1000)
	assert.Equal(t, 100, q.Limit())
}

func TestQueryStatePageChangeKeepsFilters(t *testing.T) {
	q := NewQueryState()
	require.NoError(t, q.SetFilter(FilterAssignedTo, "unassigned"))

	q.SetPage(2)

	assert.Equal(t, "2", q.Params().Get("page"))
	assert.Equal(t, "unassigned", q.Params().Get("assignedTo"))
}

func TestQueryStateParamsOmitUnset(t *testing.T) {
	q := NewQueryState()
	require.NoError(t, q.SetFilter(FilterSearch, "acme"))
	require.NoError(t, q.SetFilter(FilterSearch, ""))
	require.NoError(t, q.SetFilter(FilterMinValue, "1000"))

	p := q.Params()
	assert.False(t, p.Has("search"))
	assert.False(t, p.Has("sort"))
	assert.Equal(t, "1000", p.Get("minValue"))

	f := q.FilterParams()
	assert.False(t, f.Has("page"))
	assert.False(t, f.Has("limit"))
}

func TestQueryStateRejectsUnknownFilter(t *testing.T) {
	assert.Error(t, NewQueryState().SetFilter("password", "x"))
}

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) apply(s string) {
	r.mu.Lock()
	r.calls = append(r.calls, s)
	r.mu.Unlock()
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestSearchDebouncerAppliesLastValue(t *testing.T) {
	rec := &recorder{}
	d := NewSearchDebouncer(30*time.Millisecond, rec.apply)

	d.Update("a")
	d.Update("ac")
	d.Update("acme")

	assert.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"acme"}, rec.get())
}

func TestSearchDebouncerFlushAndStop(t *testing.T) {
	rec := &recorder{}
	d := NewSearchDebouncer(time.Hour, rec.apply)

	d.Update("jane")
	d.Flush()
	assert.Equal(t, []string{"jane"}, rec.get())

	d.Update("john")
	d.Stop()
	d.Flush()
	assert.Equal(t, []string{"jane"}, rec.get())
}

func TestSearchDebouncersAreIndependent(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	da := NewSearchDebouncer(time.Hour, a.apply)
	db := NewSearchDebouncer(time.Hour, b.apply)

	da.Update("left")
	db.Update("right")
	da.Flush()

	assert.Equal(t, []string{"left"}, a.get())
	assert.Empty(t, b.get())
	db.Stop()
}
