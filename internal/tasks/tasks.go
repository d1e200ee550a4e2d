package tasks

import "encoding/json"

// 任务类型常量
const (
	// TypeRoomPersist 将房间记录的局部更新写入 MySQL
	TypeRoomPersist = "room:persist"
	// TypeRoomPresenceSync 周期性地把实时在场集合对齐到持久化快照
	TypeRoomPresenceSync = "room:presence_sync"
)

// RoomPersistPayload 定义了房间持久化任务的数据结构。
// 指针为 nil 的字段表示本次不更新该列。
type RoomPersistPayload struct {
	RoomID      string    `json:"room_id"`
	Code        *string   `json:"code,omitempty"`
	Language    *string   `json:"language,omitempty"`
	ActiveUsers *[]string `json:"active_users,omitempty"`
}

// NewRoomPersistTask 序列化一个房间持久化任务的 payload。
func NewRoomPersistTask(payload RoomPersistPayload) ([]byte, error) {
	return json.Marshal(payload)
}

// NewRoomPresenceSyncTask 创建周期性在场同步任务的 payload（无数据）。
func NewRoomPresenceSyncTask() ([]byte, error) {
	return json.Marshal(struct{}{})
}
