package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/repository"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/session"
)

// PresenceSyncHandler 处理周期性的在场对账任务。
// 实时路径上的在场写入是尽力而为的，这个任务把注册表里的
// 活跃名单重新写回持久化记录，修复丢失的写入。
type PresenceSyncHandler struct {
	registry *session.Registry
	roomRepo repository.RoomRepository
}

// NewPresenceSyncHandler 创建 Handler 实例
func NewPresenceSyncHandler(registry *session.Registry, roomRepo repository.RoomRepository) *PresenceSyncHandler {
	if registry == nil {
		panic("Registry cannot be nil for PresenceSyncHandler")
	}
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for PresenceSyncHandler")
	}
	return &PresenceSyncHandler{registry: registry, roomRepo: roomRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *PresenceSyncHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	rooms := h.registry.LiveRooms()
	if len(rooms) == 0 {
		logrus.Debug("Presence sync: no live rooms")
		return nil
	}

	synced := 0
	for _, roomID := range rooms {
		names := h.registry.Names(roomID)
		fields := repository.RoomFields{ActiveUsers: &names}
		if err := h.roomRepo.Upsert(ctx, roomID, fields); err != nil {
			// 单个房间失败不中断整轮对账，下个周期会再试
			logrus.WithError(err).WithField("room_id", roomID).Warn("Presence sync: failed to upsert room")
			continue
		}
		synced++
	}

	logrus.WithFields(logrus.Fields{
		"live_rooms": len(rooms),
		"synced":     synced,
	}).Info("Presence sync completed")
	return nil
}
