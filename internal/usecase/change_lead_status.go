package usecase

import (
	"context"
	"log/slog"

	"github.com/xavierca1/lynkupro-api/internal/entity"
	"github.com/xavierca1/lynkupro-api/internal/infra/queue"
)

// ChangeLeadStatusUseCase moves a lead between pipeline stages. Any stage
// may follow any other.
type ChangeLeadStatusUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Events EventPublisher
	Logger *slog.Logger
}

func NewChangeLeadStatusUseCase(repo entity.LeadRepositoryInterface, events EventPublisher, logger *slog.Logger) *ChangeLeadStatusUseCase {
	return &ChangeLeadStatusUseCase{Repo: repo, Events: events, Logger: orDefault(logger)}
}

func (uc *ChangeLeadStatusUseCase) Execute(ctx context.Context, input ChangeStatusInput) (*LeadOutput, error) {
	// Checked before touching the store so an unknown status never reaches it.
	if !input.Status.Valid() {
		return nil, errInvalidStatus()
	}

	current, err := uc.Repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, mapRepoError(err, "failed to load lead")
	}

	updated, err := uc.Repo.UpdateStatus(ctx, input.ID, input.Status)
	if err != nil {
		return nil, mapRepoError(err, "failed to update lead status")
	}

	if current.Status != input.Status {
		uc.Logger.Info("lead status changed", "lead_id", input.ID, "from", current.Status, "to", input.Status)

		ev := queue.NewLeadEvent(queue.EventLeadStatusChanged, updated.ID, updated.Name)
		ev.FromStatus = string(current.Status)
		ev.ToStatus = string(input.Status)
		ev.Value = updated.Value
		ev.ActorID = input.Actor.ID
		publishEvent(ctx, uc.Events, uc.Logger, ev)
	}

	return toOutput(updated), nil
}
