package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"room-service/internal/models"
	"room-service/internal/repositories"
)

type ParticipantRepositoryMock struct {
	mock.Mock
}

func (m *ParticipantRepositoryMock) Register(ctx context.Context, name string, heartbeat int64) error {
	args := m.Called(ctx, name, heartbeat)
	return args.Error(0)
}

func (m *ParticipantRepositoryMock) Heartbeat(ctx context.Context, name string, heartbeat int64) error {
	args := m.Called(ctx, name, heartbeat)
	return args.Error(0)
}

func (m *ParticipantRepositoryMock) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *ParticipantRepositoryMock) List(ctx context.Context) ([]models.Participant, error) {
	args := m.Called(ctx)
	var participants []models.Participant
	if val := args.Get(0); val != nil {
		participants = val.([]models.Participant)
	}
	return participants, args.Error(1)
}

func (m *ParticipantRepositoryMock) RemoveIfStale(ctx context.Context, name string, cutoff int64) (bool, error) {
	args := m.Called(ctx, name, cutoff)
	return args.Bool(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Append(ctx context.Context, from, to, text, msgType, timestamp string) (models.Message, error) {
	args := m.Called(ctx, from, to, text, msgType, timestamp)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListVisibleTo(ctx context.Context, viewer string, limit int) ([]models.Message, error) {
	args := m.Called(ctx, viewer, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) Get(ctx context.Context, messageID string) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) UpdateText(ctx context.Context, messageID, text, timestamp string) error {
	args := m.Called(ctx, messageID, text, timestamp)
	return args.Error(0)
}

func (m *MessageRepositoryMock) Delete(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

var _ repositories.ParticipantRepository = (*ParticipantRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
