package usecase

import (
	"context"

	"github.com/xavierca1/lynkupro-api/internal/entity"
)

type LeadStatsUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewLeadStatsUseCase(repo entity.LeadRepositoryInterface) *LeadStatsUseCase {
	return &LeadStatsUseCase{Repo: repo}
}

func (uc *LeadStatsUseCase) Execute(ctx context.Context, filter entity.LeadFilter) (*entity.LeadStats, error) {
	if errs := ValidateFilter(filter, ""); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	leads, err := uc.Repo.FindAll(ctx, filter, entity.DefaultSort)
	if err != nil {
		return nil, technical("failed to load leads", err)
	}

	stats := entity.ComputeStats(leads)
	return &stats, nil
}
