package asynqqueue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// AsynqTaskQueue 是 TaskQueue 接口的 Asynq 实现。
type AsynqTaskQueue struct {
	client *asynq.Client
}

// NewAsynqTaskQueue 创建 AsynqTaskQueue 实例
func NewAsynqTaskQueue(client *asynq.Client) *AsynqTaskQueue {
	if client == nil {
		panic("asynq client cannot be nil for AsynqTaskQueue")
	}
	return &AsynqTaskQueue{client: client}
}

// Enqueue 把任务放入默认队列。
// 持久化是尽力而为的，重试次数有限，失败最终由周期性对账任务兜底。
func (q *AsynqTaskQueue) Enqueue(ctx context.Context, taskType string, payload []byte) error {
	task := asynq.NewTask(taskType, payload)
	_, err := q.client.EnqueueContext(ctx, task, asynq.Queue("default"), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("asynq: enqueue %s: %w", taskType, err)
	}
	return nil
}
