package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultLanguage 是新房间的默认语言标签。
const DefaultLanguage = "python"

// Room 表示一个协作编程房间的持久化记录。
// 每个房间一行，room_id 为主键；活跃用户列表是一个最终一致的快照，
// 实时的在场状态由 session.Registry 持有。
type Room struct {
	RoomID      string     `gorm:"primaryKey;size:191" json:"room_id"`              // 房间唯一标识符 (主键)
	Code        string     `gorm:"type:longtext" json:"code"`                       // 房间当前的代码文本，默认为空串
	Language    string     `gorm:"size:50;not null;default:python" json:"language"` // 语言标签，自由字符串，默认 "python"
	ActiveUsers StringList `gorm:"type:json" json:"active_users"`                   // 最近一次已知的活跃用户名快照 (JSON 数组)
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`                // 记录创建时间 (GORM 自动填充)
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`                // 任意字段变更时刷新 (GORM 自动填充)
}

// Document 是房间文档的热数据视图（代码 + 语言），用于 Redis 缓存。
// 新加入者同步时优先读它，避免每次 join 都打到 MySQL。
type Document struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// StringList 是存储在 JSON 列中的字符串数组。
type StringList []string

// Value 实现 driver.Valuer，序列化为 JSON 字符串写入数据库。
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	bytes, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(bytes), nil
}

// Scan 实现 sql.Scanner，将数据库读出的 JSON 反序列化。
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}
