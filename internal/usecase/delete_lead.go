package usecase

import (
	"context"
	"log/slog"

	"github.com/xavierca1/lynkupro-api/internal/entity"
)

type DeleteLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Logger *slog.Logger
}

func NewDeleteLeadUseCase(repo entity.LeadRepositoryInterface, logger *slog.Logger) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{Repo: repo, Logger: orDefault(logger)}
}

// Execute hard-deletes the lead. Notes go with it.
func (uc *DeleteLeadUseCase) Execute(ctx context.Context, id string, actor entity.UserRef) error {
	if err := uc.Repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "failed to delete lead")
	}
	uc.Logger.Info("lead deleted", "lead_id", id, "by", actor.ID)
	return nil
}
