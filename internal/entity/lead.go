package entity

import (
	"context"
	"strings"
	"time"
)

// Status is the pipeline stage of a lead.
type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusQualified   Status = "qualified"
	StatusProposal    Status = "proposal"
	StatusNegotiation Status = "negotiation"
	StatusWon         Status = "won"
	StatusLost        Status = "lost"
)

// Statuses lists every status in pipeline column order.
var Statuses = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusProposal,
	StatusNegotiation,
	StatusWon,
	StatusLost,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Source is where the lead came from.
type Source string

const (
	SourceWebsite  Source = "website"
	SourceReferral Source = "referral"
	SourceSocial   Source = "social"
	SourceEmail    Source = "email"
	SourcePhone    Source = "phone"
	SourceOther    Source = "other"
)

var Sources = []Source{SourceWebsite, SourceReferral, SourceSocial, SourceEmail, SourcePhone, SourceOther}

func (s Source) Valid() bool {
	for _, v := range Sources {
		if s == v {
			return true
		}
	}
	return false
}

// ProjectType is the kind of construction work the lead is asking about.
type ProjectType string

const (
	ProjectResidential ProjectType = "residential"
	ProjectCommercial  ProjectType = "commercial"
	ProjectIndustrial  ProjectType = "industrial"
	ProjectRenovation  ProjectType = "renovation"
	ProjectOther       ProjectType = "other"
)

var ProjectTypes = []ProjectType{ProjectResidential, ProjectCommercial, ProjectIndustrial, ProjectRenovation, ProjectOther}

func (p ProjectType) Valid() bool {
	for _, v := range ProjectTypes {
		if p == v {
			return true
		}
	}
	return false
}

// Value Object: Address
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// Full joins the non-empty parts with ", ".
func (a Address) Full() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type Budget struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// UserRef points at a user. Name and Email are filled on read.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Note is an entry of the lead's history. Notes are only ever appended.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedBy UserRef   `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entidade: Lead
type Lead struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	Email              string                 `json:"email"`
	Phone              string                 `json:"phone"`
	Company            string                 `json:"company,omitempty"`
	Status             Status                 `json:"status"`
	Source             Source                 `json:"source"`
	Value              float64                `json:"value"`
	Probability        int                    `json:"probability"`
	ProjectType        ProjectType            `json:"projectType,omitempty"`
	Address            *Address               `json:"address,omitempty"`
	EstimatedStartDate *time.Time             `json:"estimatedStartDate,omitempty"`
	Budget             Budget                 `json:"budget"`
	Notes              []Note                 `json:"notes"`
	AssignedTo         *UserRef               `json:"assignedTo"`
	Tags               []string               `json:"tags"`
	NextFollowUp       *time.Time             `json:"nextFollowUp,omitempty"`
	LastContactDate    *time.Time             `json:"lastContactDate,omitempty"`
	CustomFields       map[string]interface{} `json:"customFields,omitempty"`
	CreatedBy          UserRef                `json:"createdBy"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// NewLead builds a lead in its initial state. Status is always StatusNew
// and the creator is fixed here.
func NewLead(name, email, phone string, createdBy UserRef) *Lead {
	now := time.Now().UTC()
	return &Lead{
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
		Status:    StatusNew,
		Source:    SourceWebsite,
		Notes:     []Note{},
		Tags:      []string{},
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAssigned reports whether somebody owns the lead.
func (l *Lead) IsAssigned() bool {
	return l.AssignedTo != nil && l.AssignedTo.ID != ""
}

// NormalizeTags trims, drops empties and removes duplicates keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// LeadPatch enumerates the fields that the general update may touch.
// Status, assignment and notes have their own operations. CustomFields are
// merged key by key into the stored map.
type LeadPatch struct {
	Name               *string                `json:"name,omitempty"`
	Email              *string                `json:"email,omitempty"`
	Phone              *string                `json:"phone,omitempty"`
	Company            *string                `json:"company,omitempty"`
	Source             *Source                `json:"source,omitempty"`
	Value              *float64               `json:"value,omitempty"`
	Probability        *int                   `json:"probability,omitempty"`
	ProjectType        *ProjectType           `json:"projectType,omitempty"`
	Address            *Address               `json:"address,omitempty"`
	EstimatedStartDate *time.Time             `json:"estimatedStartDate,omitempty"`
	Budget             *Budget                `json:"budget,omitempty"`
	Tags               []string               `json:"tags,omitempty"`
	NextFollowUp       *time.Time             `json:"nextFollowUp,omitempty"`
	LastContactDate    *time.Time             `json:"lastContactDate,omitempty"`
	CustomFields       map[string]interface{} `json:"customFields,omitempty"`
}

func (p LeadPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Company == nil &&
		p.Source == nil && p.Value == nil && p.Probability == nil && p.ProjectType == nil &&
		p.Address == nil && p.EstimatedStartDate == nil && p.Budget == nil && p.Tags == nil &&
		p.NextFollowUp == nil && p.LastContactDate == nil && p.CustomFields == nil
}

// Normalized returns a copy with name, email and phone trimmed and tags
// cleaned, the form in which the patch is both validated and stored.
func (p LeadPatch) Normalized() LeadPatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		t := strings.TrimSpace(*s)
		return &t
	}
	p.Name = trim(p.Name)
	p.Email = trim(p.Email)
	p.Phone = trim(p.Phone)
	if p.Tags != nil {
		p.Tags = NormalizeTags(p.Tags)
	}
	return p
}

// Apply merges the normalized patch into l. It does not touch UpdatedAt.
func (p LeadPatch) Apply(l *Lead) {
	p = p.Normalized()
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Company != nil {
		l.Company = *p.Company
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.Value != nil {
		l.Value = *p.Value
	}
	if p.Probability != nil {
		l.Probability = *p.Probability
	}
	if p.ProjectType != nil {
		l.ProjectType = *p.ProjectType
	}
	if p.Address != nil {
		addr := *p.Address
		l.Address = &addr
	}
	if p.EstimatedStartDate != nil {
		l.EstimatedStartDate = p.EstimatedStartDate
	}
	if p.Budget != nil {
		l.Budget = *p.Budget
	}
	if p.Tags != nil {
		l.Tags = p.Tags
	}
	if p.NextFollowUp != nil {
		l.NextFollowUp = p.NextFollowUp
	}
	if p.LastContactDate != nil {
		l.LastContactDate = p.LastContactDate
	}
	if p.CustomFields != nil {
		merged := make(map[string]interface{}, len(l.CustomFields)+len(p.CustomFields))
		for k, v := range l.CustomFields {
			merged[k] = v
		}
		for k, v := range p.CustomFields {
			merged[k] = v
		}
		l.CustomFields = merged
	}
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter, opts ListOptions) ([]Lead, int64, error)
	FindAll(ctx context.Context, filter LeadFilter, sort string) ([]Lead, error)
	Update(ctx context.Context, id string, patch LeadPatch) (*Lead, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Lead, error)
	Assign(ctx context.Context, id string, userID *string) (*Lead, error)
	AddNote(ctx context.Context, id string, note Note) (*Lead, error)
	Delete(ctx context.Context, id string) error
	FindDueFollowUps(ctx context.Context, dueBefore time.Time, limit int) ([]Lead, error)
	MarkFollowUpNotified(ctx context.Context, id string, at time.Time) error
}
