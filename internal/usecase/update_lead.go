package usecase

import (
	"context"

	"github.com/xavierca1/lynkupro-api/internal/entity"
)

type UpdateLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewUpdateLeadUseCase(repo entity.LeadRepositoryInterface) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{Repo: repo}
}

// Execute applies the general patch. Status, assignment and notes are
// refused here and must go through their own use cases.
func (uc *UpdateLeadUseCase) Execute(ctx context.Context, input UpdateLeadInput) (*LeadOutput, error) {
	if errs := ValidatePatchFields(input.Fields); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	current, err := uc.Repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, mapRepoError(err, "failed to load lead")
	}

	patch := input.Patch.Normalized()
	if patch.IsEmpty() {
		return toOutput(current), nil
	}

	merged := *current
	patch.Apply(&merged)
	if errs := ValidateLead(&merged); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	updated, err := uc.Repo.Update(ctx, input.ID, patch)
	if err != nil {
		return nil, mapRepoError(err, "failed to update lead")
	}
	return toOutput(updated), nil
}
