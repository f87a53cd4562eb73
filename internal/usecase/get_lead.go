package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/lynkupro-api/internal/entity"
)

type GetLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewGetLeadUseCase(repo entity.LeadRepositoryInterface) *GetLeadUseCase {
	return &GetLeadUseCase{Repo: repo}
}

func (uc *GetLeadUseCase) Execute(ctx context.Context, id string) (*LeadOutput, error) {
	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "failed to load lead")
	}
	return toOutput(lead), nil
}

func mapRepoError(err error, msg string) error {
	if errors.Is(err, entity.ErrLeadNotFound) {
		return errLeadNotFound()
	}
	return technical(msg, err)
}
