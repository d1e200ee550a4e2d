package repository

import "context"

// TaskQueue 抽象后台任务队列（Asynq 实现）。
// Room Coordinator 通过它把持久化写入移出实时路径。
type TaskQueue interface {
	// Enqueue 将指定类型的任务放入队列，payload 为已序列化的任务数据。
	Enqueue(ctx context.Context, taskType string, payload []byte) error
}
