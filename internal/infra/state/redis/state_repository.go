package redisstate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/domain"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/repository"
)

// documentTTL 是文档缓存的过期时间，每次写入刷新。
// 缓存只是 join 同步的快路径，过期后回落 MySQL 重新播种。
const documentTTL = 6 * time.Hour

// RedisStateRepository 是 StateRepository 接口的 Redis 实现。
// 房间文档缓存为 Hash：field "code" / "language"。
type RedisStateRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateRepository 创建 RedisStateRepository 实例
func NewRedisStateRepository(client *redis.Client, keyPrefix string) *RedisStateRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisStateRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "pp:" // 默认前缀 "pp:" (pair programming)
	}
	return &RedisStateRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *RedisStateRepository) roomDocKey(roomID string) string {
	return fmt.Sprintf("%sroom:%s:doc", r.keyPrefix, roomID)
}

// GetDocument 获取房间文档的缓存副本。
// Hash 缺失或字段不完整（比如只写过 code 的部分缓存）都按未命中处理。
func (r *RedisStateRepository) GetDocument(ctx context.Context, roomID string) (*domain.Document, error) {
	key := r.roomDocKey(roomID)
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: get document for room '%s': %w", roomID, err)
	}
	code, hasCode := fields["code"]
	language, hasLanguage := fields["language"]
	if !hasCode || !hasLanguage {
		return nil, repository.ErrNotFound
	}
	return &domain.Document{Code: code, Language: language}, nil
}

// SetDocument 写入完整文档缓存并刷新 TTL。
func (r *RedisStateRepository) SetDocument(ctx context.Context, roomID string, doc domain.Document) error {
	key := r.roomDocKey(roomID)
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, "code", doc.Code, "language", doc.Language)
	pipe.Expire(ctx, key, documentTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set document for room '%s': %w", roomID, err)
	}
	return nil
}

// SetCode 只更新缓存中的代码字段。
// Hash 尚未播种时这会留下只有 code 的部分文档，
// GetDocument 对字段不完整按未命中处理，所以不会读到半份文档。
func (r *RedisStateRepository) SetCode(ctx context.Context, roomID string, code string) error {
	return r.setField(ctx, roomID, "code", code)
}

// SetLanguage 只更新缓存中的语言字段。
func (r *RedisStateRepository) SetLanguage(ctx context.Context, roomID string, language string) error {
	return r.setField(ctx, roomID, "language", language)
}

func (r *RedisStateRepository) setField(ctx context.Context, roomID, field, value string) error {
	key := r.roomDocKey(roomID)
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, field, value)
	pipe.Expire(ctx, key, documentTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set %s for room '%s': %w", field, roomID, err)
	}
	return nil
}
