// Package mocks 提供 repository 接口的 testify Mock 实现，仅用于单元测试。
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/domain"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/repository"
)

// RoomRepository 是 repository.RoomRepository 的 Mock。
type RoomRepository struct {
	mock.Mock
}

func (m *RoomRepository) FindByID(ctx context.Context, roomID string) (*domain.Room, error) {
	args := m.Called(ctx, roomID)
	if room, ok := args.Get(0).(*domain.Room); ok {
		return room, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) FindAll(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	if rooms, ok := args.Get(0).([]domain.Room); ok {
		return rooms, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) Upsert(ctx context.Context, roomID string, fields repository.RoomFields) error {
	args := m.Called(ctx, roomID, fields)
	return args.Error(0)
}

// StateRepository 是 repository.StateRepository 的 Mock。
type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) GetDocument(ctx context.Context, roomID string) (*domain.Document, error) {
	args := m.Called(ctx, roomID)
	if doc, ok := args.Get(0).(*domain.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StateRepository) SetDocument(ctx context.Context, roomID string, doc domain.Document) error {
	args := m.Called(ctx, roomID, doc)
	return args.Error(0)
}

func (m *StateRepository) SetCode(ctx context.Context, roomID string, code string) error {
	args := m.Called(ctx, roomID, code)
	return args.Error(0)
}

func (m *StateRepository) SetLanguage(ctx context.Context, roomID string, language string) error {
	args := m.Called(ctx, roomID, language)
	return args.Error(0)
}

// TaskQueue 是 repository.TaskQueue 的 Mock。
type TaskQueue struct {
	mock.Mock
}

func (m *TaskQueue) Enqueue(ctx context.Context, taskType string, payload []byte) error {
	args := m.Called(ctx, taskType, payload)
	return args.Error(0)
}
