package handlers

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/lynkupro-api/internal/entity"
	"github.com/xavierca1/lynkupro-api/internal/usecase"
)

// parseListInput reads filter, sort and page window from the query string.
// Blank values mean "no constraint".
func parseListInput(q url.Values) (usecase.ListLeadsInput, []usecase.ValidationError) {
	var errs []usecase.ValidationError
	var in usecase.ListLeadsInput

	in.Filter = entity.LeadFilter{
		Status:      entity.Status(strings.TrimSpace(q.Get("status"))),
		Source:      entity.Source(strings.TrimSpace(q.Get("source"))),
		ProjectType: entity.ProjectType(strings.TrimSpace(q.Get("projectType"))),
		AssignedTo:  strings.TrimSpace(q.Get("assignedTo")),
		Search:      strings.TrimSpace(q.Get("search")),
	}

	parseFloat := func(key string) *float64 {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, usecase.ValidationError{Field: key, Message: "must be a number"})
			return nil
		}
		return &v
	}
	in.Filter.MinValue = parseFloat("minValue")
	in.Filter.MaxValue = parseFloat("maxValue")

	parseDate := func(key string, endOfDay bool) *time.Time {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			return nil
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return &t
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			errs = append(errs, usecase.ValidationError{Field: key, Message: "must be a date (YYYY-MM-DD or RFC3339)"})
			return nil
		}
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t
	}
	in.Filter.CreatedFrom = parseDate("createdFrom", false)
	in.Filter.CreatedTo = parseDate("createdTo", true)

	parseInt := func(key string, min, max int) int {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			return 0
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < min || v > max {
			errs = append(errs, usecase.ValidationError{Field: key, Message: "must be an integer between " + strconv.Itoa(min) + " and " + strconv.Itoa(max)})
			return 0
		}
		return v
	}
	in.Options = entity.ListOptions{
		Page:  parseInt("page", 1, 1<<30),
		Limit: parseInt("limit", 1, entity.MaxPageSize),
		Sort:  strings.TrimSpace(q.Get("sort")),
	}

	return in, errs
}
