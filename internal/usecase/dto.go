package usecase

import (
	"time"

	"github.com/xavierca1/lynkupro-api/internal/entity"
)

type CreateLeadInput struct {
	Name               string                 `json:"name"`
	Email              string                 `json:"email"`
	Phone              string                 `json:"phone"`
	Company            string                 `json:"company"`
	Source             entity.Source          `json:"source"`
	Value              *float64               `json:"value"`
	Probability        *int                   `json:"probability"`
	ProjectType        entity.ProjectType     `json:"projectType"`
	Address            *entity.Address        `json:"address"`
	EstimatedStartDate *time.Time             `json:"estimatedStartDate"`
	Budget             entity.Budget          `json:"budget"`
	Tags               []string               `json:"tags"`
	NextFollowUp       *time.Time             `json:"nextFollowUp"`
	AssignedTo         string                 `json:"assignedTo"`
	CustomFields       map[string]interface{} `json:"customFields"`
	Status             entity.Status          `json:"status"` // ignored, leads always start as new
	CreatedBy          entity.UserRef         `json:"-"`
}

// LeadOutput is a lead plus its derived score.
type LeadOutput struct {
	entity.Lead
	Score     int              `json:"score"`
	ScoreBand entity.ScoreBand `json:"scoreBand"`
}

func toOutput(l *entity.Lead) *LeadOutput {
	score := entity.Score(*l)
	return &LeadOutput{Lead: *l, Score: score, ScoreBand: entity.BandFor(score)}
}

type ListLeadsInput struct {
	Filter  entity.LeadFilter
	Options entity.ListOptions
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type ListLeadsOutput struct {
	Data       []LeadOutput `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

type UpdateLeadInput struct {
	ID    string
	Patch entity.LeadPatch
	// Fields are the keys present in the request body.
	Fields []string
}

type ChangeStatusInput struct {
	ID     string         `json:"-"`
	Status entity.Status  `json:"status"`
	Actor  entity.UserRef `json:"-"`
}

type AssignLeadInput struct {
	ID     string         `json:"-"`
	UserID *string        `json:"userId"`
	Actor  entity.UserRef `json:"-"`
}

type AddNoteInput struct {
	ID     string         `json:"-"`
	Text   string         `json:"text"`
	Author entity.UserRef `json:"-"`
}
