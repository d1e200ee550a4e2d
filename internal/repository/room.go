package repository

import (
	"context"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/domain"
)

// RoomFields 描述一次局部更新要写入的字段，nil 表示该字段保持不变。
// 记录不存在时，未提供的字段落到默认值 (code=""、language="python")。
type RoomFields struct {
	Code        *string
	Language    *string
	ActiveUsers *[]string
}

// RoomRepository 定义了房间持久化记录的存储和检索操作。
type RoomRepository interface {
	// FindByID 根据房间 ID 查找持久化记录。
	// 如果记录不存在，返回 repository.ErrRoomNotFound。
	FindByID(ctx context.Context, roomID string) (*domain.Room, error)

	// FindAll 返回所有房间记录，供 HTTP 列表接口使用。
	FindAll(ctx context.Context) ([]domain.Room, error)

	// Upsert 对指定房间做局部写入：记录不存在则按默认值创建，
	// 存在则只更新 fields 中提供的列，并刷新 updated_at。
	Upsert(ctx context.Context, roomID string, fields RoomFields) error
}
