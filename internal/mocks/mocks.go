package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/lynkupro-api/internal/entity"
	"github.com/xavierca1/lynkupro-api/internal/infra/queue"
)

// LeadRepository is a mock for entity.LeadRepositoryInterface.
type LeadRepository struct {
	mock.Mock
}

func (m *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if lead, ok := args.Get(0).(*entity.Lead); ok {
		return lead, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LeadRepository) List(ctx context.Context, filter entity.LeadFilter, opts entity.ListOptions) ([]entity.Lead, int64, error) {
	args := m.Called(ctx, filter, opts)
	leads, _ := args.Get(0).([]entity.Lead)
	return leads, args.Get(1).(int64), args.Error(2)
}

func (m *LeadRepository) FindAll(ctx context.Context, filter entity.LeadFilter, sort string) ([]entity.Lead, error) {
	args := m.Called(ctx, filter, sort)
	leads, _ := args.Get(0).([]entity.Lead)
	return leads, args.Error(1)
}

func (m *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	args := m.Called(ctx, id, patch)
	if lead, ok := args.Get(0).(*entity.Lead); ok {
		return lead, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.Status) (*entity.Lead, error) {
	args := m.Called(ctx, id, status)
	if lead, ok := args.Get(0).(*entity.Lead); ok {
		return lead, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LeadRepository) Assign(ctx context.Context, id string, userID *string) (*entity.Lead, error) {
	args := m.Called(ctx, id, userID)
	if lead, ok := args.Get(0).(*entity.Lead); ok {
		return lead, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LeadRepository) AddNote(ctx context.Context, id string, note entity.Note) (*entity.Lead, error) {
	args := m.Called(ctx, id, note)
	if lead, ok := args.Get(0).(*entity.Lead); ok {
		return lead, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LeadRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *LeadRepository) FindDueFollowUps(ctx context.Context, dueBefore time.Time, limit int) ([]entity.Lead, error) {
	args := m.Called(ctx, dueBefore, limit)
	leads, _ := args.Get(0).([]entity.Lead)
	return leads, args.Error(1)
}

func (m *LeadRepository) MarkFollowUpNotified(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// UserRepository is a mock for entity.UserRepositoryInterface.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*entity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// EventPublisher records published lead events.
type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
