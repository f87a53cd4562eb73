package database

import (
	"strings"

	"github.com/xavierca1/lynkupro-api/internal/entity"
	"go.mongodb.org/mongo-driver/bson"
)

// buildLeadQuery translates a LeadFilter into a find filter. An empty filter
// matches every lead.
func buildLeadQuery(f entity.LeadFilter) bson.M {
	q := bson.M{}

	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.Source != "" {
		q["source"] = string(f.Source)
	}
	if f.ProjectType != "" {
		q["projectType"] = string(f.ProjectType)
	}

	switch {
	case f.WantsUnassigned():
		// matches both null and a missing field
		q["assignedTo"] = nil
	case strings.TrimSpace(f.AssignedTo) != "":
		q["assignedTo"] = strings.TrimSpace(f.AssignedTo)
	}

	if f.MinValue != nil || f.MaxValue != nil {
		r := bson.M{}
		if f.MinValue != nil {
			r["$gte"] = *f.MinValue
		}
		if f.MaxValue != nil {
			r["$lte"] = *f.MaxValue
		}
		q["value"] = r
	}

	if f.CreatedFrom != nil || f.CreatedTo != nil {
		r := bson.M{}
		if f.CreatedFrom != nil {
			r["$gte"] = *f.CreatedFrom
		}
		if f.CreatedTo != nil {
			r["$lte"] = *f.CreatedTo
		}
		q["createdAt"] = r
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		q["$text"] = bson.M{"$search": s}
	}

	return q
}

// buildSort maps a "-field" sort key to a sort document. _id breaks ties so
// pages are stable.
func buildSort(sort string) bson.D {
	field, desc, ok := entity.ParseSort(sort)
	if !ok {
		field, desc, _ = entity.ParseSort(entity.DefaultSort)
	}
	dir := 1
	if desc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}
