package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/xavierca1/lynkupro-api/internal/entity"
	"github.com/xavierca1/lynkupro-api/internal/infra/queue"
)

type CreateLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Users  entity.UserRepositoryInterface
	Events EventPublisher
	Logger *slog.Logger
}

func NewCreateLeadUseCase(
	repo entity.LeadRepositoryInterface,
	users entity.UserRepositoryInterface,
	events EventPublisher,
	logger *slog.Logger,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Repo:   repo,
		Users:  users,
		Events: events,
		Logger: orDefault(logger),
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*LeadOutput, error) {
	lead := entity.NewLead(input.Name, input.Email, input.Phone, input.CreatedBy)
	lead.Company = input.Company
	if input.Source != "" {
		lead.Source = input.Source
	}
	if input.Value != nil {
		lead.Value = *input.Value
	}
	if input.Probability != nil {
		lead.Probability = *input.Probability
	}
	lead.ProjectType = input.ProjectType
	lead.Address = input.Address
	lead.EstimatedStartDate = input.EstimatedStartDate
	lead.Budget = input.Budget
	lead.Tags = entity.NormalizeTags(input.Tags)
	lead.NextFollowUp = input.NextFollowUp
	lead.CustomFields = input.CustomFields

	validationErrors := ValidateLead(lead)

	var assignee *entity.User
	if input.AssignedTo != "" {
		u, err := uc.Users.FindByID(ctx, input.AssignedTo)
		switch {
		case errors.Is(err, entity.ErrUserNotFound):
			validationErrors = append(validationErrors, ValidationError{"assignedTo", "user not found"})
		case err != nil:
			return nil, technical("failed to look up assignee", err)
		default:
			assignee = u
			ref := u.Ref()
			lead.AssignedTo = &ref
		}
	}

	if len(validationErrors) > 0 {
		return nil, newValidationError(validationErrors)
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, technical("failed to create lead", err)
	}

	uc.Logger.Info("lead created", "lead_id", lead.ID, "source", lead.Source, "created_by", lead.CreatedBy.ID)

	ev := queue.NewLeadEvent(queue.EventLeadCreated, lead.ID, lead.Name)
	ev.LeadEmail = lead.Email
	ev.Company = lead.Company
	ev.Value = lead.Value
	ev.ActorID = lead.CreatedBy.ID
	publishEvent(ctx, uc.Events, uc.Logger, ev)

	if assignee != nil {
		publishEvent(ctx, uc.Events, uc.Logger, assignedEvent(lead, assignee, lead.CreatedBy.ID))
	}

	return toOutput(lead), nil
}

func assignedEvent(lead *entity.Lead, assignee *entity.User, actorID string) queue.LeadEvent {
	ev := queue.NewLeadEvent(queue.EventLeadAssigned, lead.ID, lead.Name)
	ev.Company = lead.Company
	ev.Value = lead.Value
	ev.AssigneeID = assignee.ID
	ev.AssigneeName = assignee.Name
	ev.AssigneeEmail = assignee.Email
	ev.ActorID = actorID
	return ev
}
