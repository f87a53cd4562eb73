package database

import (
	"time"

	"github.com/xavierca1/lynkupro-api/internal/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type addressDocument struct {
	Street  string `bson:"street,omitempty"`
	City    string `bson:"city,omitempty"`
	State   string `bson:"state,omitempty"`
	ZipCode string `bson:"zipCode,omitempty"`
	Country string `bson:"country,omitempty"`
}

type budgetDocument struct {
	Min *float64 `bson:"min,omitempty"`
	Max *float64 `bson:"max,omitempty"`
}

type noteDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Text      string             `bson:"text"`
	CreatedBy string             `bson:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// leadDocument is the stored shape of a lead. User references are kept as
// plain ids and resolved on read.
type leadDocument struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Name               string             `bson:"name"`
	Email              string             `bson:"email"`
	Phone              string             `bson:"phone"`
	Company            string             `bson:"company,omitempty"`
	Status             string             `bson:"status"`
	Source             string             `bson:"source"`
	Value              float64            `bson:"value"`
	Probability        int                `bson:"probability"`
	ProjectType        string             `bson:"projectType,omitempty"`
	Address            *addressDocument   `bson:"address,omitempty"`
	EstimatedStartDate *time.Time         `bson:"estimatedStartDate,omitempty"`
	Budget             budgetDocument     `bson:"budget"`
	Notes              []noteDocument     `bson:"notes"`
	AssignedTo         *string            `bson:"assignedTo"`
	Tags               []string           `bson:"tags"`
	NextFollowUp       *time.Time         `bson:"nextFollowUp,omitempty"`
	LastContactDate    *time.Time         `bson:"lastContactDate,omitempty"`
	FollowUpNotifiedAt *time.Time         `bson:"followUpNotifiedAt,omitempty"`
	CustomFields       bson.M             `bson:"customFields,omitempty"`
	CreatedBy          string             `bson:"createdBy"`
	CreatedAt          time.Time          `bson:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt"`
}

func toAddressDocument(a *entity.Address) *addressDocument {
	if a == nil {
		return nil
	}
	return &addressDocument{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country}
}

func newLeadDocument(l *entity.Lead) leadDocument {
	doc := leadDocument{
		Name:               l.Name,
		Email:              l.Email,
		Phone:              l.Phone,
		Company:            l.Company,
		Status:             string(l.Status),
		Source:             string(l.Source),
		Value:              l.Value,
		Probability:        l.Probability,
		ProjectType:        string(l.ProjectType),
		Address:            toAddressDocument(l.Address),
		EstimatedStartDate: l.EstimatedStartDate,
		Budget:             budgetDocument{Min: l.Budget.Min, Max: l.Budget.Max},
		Notes:              make([]noteDocument, 0, len(l.Notes)),
		Tags:               entity.NormalizeTags(l.Tags),
		NextFollowUp:       l.NextFollowUp,
		LastContactDate:    l.LastContactDate,
		CustomFields:       l.CustomFields,
		CreatedBy:          l.CreatedBy.ID,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
	if l.IsAssigned() {
		id := l.AssignedTo.ID
		doc.AssignedTo = &id
	}
	for _, n := range l.Notes {
		doc.Notes = append(doc.Notes, noteDocument{
			ID:        primitive.NewObjectID(),
			Text:      n.Text,
			CreatedBy: n.CreatedBy.ID,
			CreatedAt: n.CreatedAt,
		})
	}
	return doc
}

func (d leadDocument) toEntity() entity.Lead {
	l := entity.Lead{
		ID:                 d.ID.Hex(),
		Name:               d.Name,
		Email:              d.Email,
		Phone:              d.Phone,
		Company:            d.Company,
		Status:             entity.Status(d.Status),
		Source:             entity.Source(d.Source),
		Value:              d.Value,
		Probability:        d.Probability,
		ProjectType:        entity.ProjectType(d.ProjectType),
		EstimatedStartDate: d.EstimatedStartDate,
		Budget:             entity.Budget{Min: d.Budget.Min, Max: d.Budget.Max},
		Notes:              make([]entity.Note, 0, len(d.Notes)),
		Tags:               d.Tags,
		NextFollowUp:       d.NextFollowUp,
		LastContactDate:    d.LastContactDate,
		CustomFields:       d.CustomFields,
		CreatedBy:          entity.UserRef{ID: d.CreatedBy},
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if l.Status == "" {
		l.Status = entity.StatusNew
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}
	if d.Address != nil {
		l.Address = &entity.Address{
			Street: d.Address.Street, City: d.Address.City, State: d.Address.State,
			ZipCode: d.Address.ZipCode, Country: d.Address.Country,
		}
	}
	if d.AssignedTo != nil && *d.AssignedTo != "" {
		l.AssignedTo = &entity.UserRef{ID: *d.AssignedTo}
	}
	for _, n := range d.Notes {
		l.Notes = append(l.Notes, entity.Note{
			ID:        n.ID.Hex(),
			Text:      n.Text,
			CreatedBy: entity.UserRef{ID: n.CreatedBy},
			CreatedAt: n.CreatedAt,
		})
	}
	return l
}

// patchSet turns a LeadPatch into a $set document. Only fields present in
// the patch are written, in the same normalized form they were validated in.
func patchSet(p entity.LeadPatch, now time.Time) bson.M {
	p = p.Normalized()
	set := bson.M{"updatedAt": now}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.Company != nil {
		set["company"] = *p.Company
	}
	if p.Source != nil {
		set["source"] = string(*p.Source)
	}
	if p.Value != nil {
		set["value"] = *p.Value
	}
	if p.Probability != nil {
		set["probability"] = *p.Probability
	}
	if p.ProjectType != nil {
		set["projectType"] = string(*p.ProjectType)
	}
	if p.Address != nil {
		set["address"] = toAddressDocument(p.Address)
	}
	if p.EstimatedStartDate != nil {
		set["estimatedStartDate"] = *p.EstimatedStartDate
	}
	if p.Budget != nil {
		set["budget"] = budgetDocument{Min: p.Budget.Min, Max: p.Budget.Max}
	}
	if p.Tags != nil {
		set["tags"] = p.Tags
	}
	if p.NextFollowUp != nil {
		set["nextFollowUp"] = *p.NextFollowUp
	}
	if p.LastContactDate != nil {
		set["lastContactDate"] = *p.LastContactDate
	}
	for k, v := range p.CustomFields {
		set["customFields."+k] = v
	}
	return set
}
