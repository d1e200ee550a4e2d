package dto

import "encoding/json"

// 客户端与服务端之间的 WebSocket 事件名。
// 入站事件沿用前端约定的 camelCase 命名。
const (
	EventJoin           = "join"
	EventCodeChange     = "codeChange"
	EventTyping         = "typing"
	EventLanguageChange = "languageChange"
	EventLeaveRoom      = "leaveRoom"

	// 出站事件
	EventCodeUpdate     = "codeUpdate"
	EventLanguageUpdate = "languageUpdate"
	EventUserJoined     = "userJoined"
	EventUserTyping     = "userTyping"
)

// Envelope 是 WebSocket 消息的统一外层结构。
// Data 保持原始字节，由分发层按 Event 再解析。
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinPayload 表示 join 事件的数据结构。
type JoinPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

// CodeChangePayload 表示 codeChange 事件的数据结构。
type CodeChangePayload struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

// TypingPayload 表示 typing 事件的数据结构。
type TypingPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

// LanguageChangePayload 表示 languageChange 事件的数据结构。
type LanguageChangePayload struct {
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
}
