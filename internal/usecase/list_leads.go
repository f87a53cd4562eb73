package usecase

import (
	"context"

	"github.com/xavierca1/lynkupro-api/internal/entity"
)

type ListLeadsUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewListLeadsUseCase(repo entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

func (uc *ListLeadsUseCase) Execute(ctx context.Context, input ListLeadsInput) (*ListLeadsOutput, error) {
	if errs := ValidateFilter(input.Filter, input.Options.Sort); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	opts := input.Options.Normalize()

	leads, total, err := uc.Repo.List(ctx, input.Filter, opts)
	if err != nil {
		return nil, technical("failed to list leads", err)
	}

	data := make([]LeadOutput, 0, len(leads))
	for i := range leads {
		data = append(data, *toOutput(&leads[i]))
	}

	return &ListLeadsOutput{
		Data: data,
		Pagination: Pagination{
			Page:       opts.Page,
			Limit:      opts.Limit,
			Total:      total,
			TotalPages: entity.TotalPages(total, opts.Limit),
		},
	}, nil
}

// ValidateFilter rejects enum values and sort keys the store does not know.
func ValidateFilter(f entity.LeadFilter, sort string) []ValidationError {
	var errors []ValidationError
	if f.Status != "" && !f.Status.Valid() {
		errors = append(errors, ValidationError{"status", "is invalid"})
	}
	if f.Source != "" && !f.Source.Valid() {
		errors = append(errors, ValidationError{"source", "is invalid"})
	}
	if f.ProjectType != "" && !f.ProjectType.Valid() {
		errors = append(errors, ValidationError{"projectType", "is invalid"})
	}
	if f.MinValue != nil && f.MaxValue != nil && *f.MinValue > *f.MaxValue {
		errors = append(errors, ValidationError{"minValue", "must not exceed maxValue"})
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		errors = append(errors, ValidationError{"createdFrom", "must not be after createdTo"})
	}
	if sort != "" {
		if _, _, ok := entity.ParseSort(sort); !ok {
			errors = append(errors, ValidationError{"sort", "is not a sortable field"})
		}
	}
	return errors
}
