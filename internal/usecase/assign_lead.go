package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/xavierca1/lynkupro-api/internal/entity"
)

type AssignLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Users  entity.UserRepositoryInterface
	Events EventPublisher
	Logger *slog.Logger
}

func NewAssignLeadUseCase(
	repo entity.LeadRepositoryInterface,
	users entity.UserRepositoryInterface,
	events EventPublisher,
	logger *slog.Logger,
) *AssignLeadUseCase {
	return &AssignLeadUseCase{Repo: repo, Users: users, Events: events, Logger: orDefault(logger)}
}

// Execute sets or clears the owner of a lead. A nil or blank user id unassigns.
func (uc *AssignLeadUseCase) Execute(ctx context.Context, input AssignLeadInput) (*LeadOutput, error) {
	var assignee *entity.User
	var userID *string

	if input.UserID != nil && strings.TrimSpace(*input.UserID) != "" {
		id := strings.TrimSpace(*input.UserID)
		u, err := uc.Users.FindByID(ctx, id)
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, newValidationError([]ValidationError{{"userId", "user not found"}})
		}
		if err != nil {
			return nil, technical("failed to look up assignee", err)
		}
		assignee = u
		userID = &id
	}

	updated, err := uc.Repo.Assign(ctx, input.ID, userID)
	if err != nil {
		return nil, mapRepoError(err, "failed to assign lead")
	}

	if assignee == nil {
		uc.Logger.Info("lead unassigned", "lead_id", input.ID)
		return toOutput(updated), nil
	}

	uc.Logger.Info("lead assigned", "lead_id", input.ID, "assignee", assignee.ID)
	publishEvent(ctx, uc.Events, uc.Logger, assignedEvent(updated, assignee, input.Actor.ID))

	return toOutput(updated), nil
}
