package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/domain"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/repository"
)

// RoomService 负责 HTTP 侧的房间只读查询。
type RoomService struct {
	roomRepo repository.RoomRepository
}

// NewRoomService 创建 RoomService 实例。
func NewRoomService(roomRepo repository.RoomRepository) *RoomService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	return &RoomService{roomRepo: roomRepo}
}

// GetRoom 返回指定房间的持久化记录。
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	logCtx := logrus.WithField("room_id", roomID)
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Debug("GetRoom: room not found")
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("GetRoom: repository error")
		return nil, ErrInternalServer
	}
	return room, nil
}

// ListRooms 返回全部房间的持久化记录。
func (s *RoomService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.roomRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("ListRooms: repository error")
		return nil, ErrInternalServer
	}
	return rooms, nil
}
