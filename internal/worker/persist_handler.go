package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/repository"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/tasks"
)

// RoomPersistHandler 处理房间记录的持久化任务
type RoomPersistHandler struct {
	roomRepo repository.RoomRepository
}

// NewRoomPersistHandler 创建 Handler 实例
func NewRoomPersistHandler(roomRepo repository.RoomRepository) *RoomPersistHandler {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomPersistHandler")
	}
	return &RoomPersistHandler{roomRepo: roomRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *RoomPersistHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
		"max_retry": maxRetry,
	})

	var payload tasks.RoomPersistPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal room persist payload")
		// payload 坏了重试也没用
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.RoomID == "" {
		logCtx.Error("Room persist payload missing room_id")
		return fmt.Errorf("payload missing room_id: %w", asynq.SkipRetry)
	}
	logCtx = logCtx.WithField("room_id", payload.RoomID)

	fields := repository.RoomFields{
		Code:        payload.Code,
		Language:    payload.Language,
		ActiveUsers: payload.ActiveUsers,
	}
	if err := h.roomRepo.Upsert(ctx, payload.RoomID, fields); err != nil {
		logCtx.WithError(err).Error("Failed to upsert room record")
		return fmt.Errorf("failed to persist room %s: %w", payload.RoomID, err)
	}

	logCtx.Debug("Room persist task processed successfully")
	return nil
}
