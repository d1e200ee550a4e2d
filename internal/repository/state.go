package repository

import (
	"context"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/domain"
)

// StateRepository 定义了房间热状态（当前文档）的缓存操作，由 Redis 实现。
// 所有写入都是尽力而为：失败只记录日志，不影响实时路径。
type StateRepository interface {
	// GetDocument 获取房间文档的缓存副本。
	// 缓存未命中（或不完整）时返回 repository.ErrNotFound。
	GetDocument(ctx context.Context, roomID string) (*domain.Document, error)

	// SetDocument 写入完整的文档缓存并刷新过期时间。
	SetDocument(ctx context.Context, roomID string, doc domain.Document) error

	// SetCode 只更新缓存中的代码字段。
	SetCode(ctx context.Context, roomID string, code string) error

	// SetLanguage 只更新缓存中的语言字段。
	SetLanguage(ctx context.Context, roomID string, language string) error
}
