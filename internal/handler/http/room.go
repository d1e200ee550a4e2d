package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/service"
)

// RoomHandler 封装了与房间查询相关的 HTTP 处理逻辑
type RoomHandler struct {
	roomService *service.RoomService // 依赖 RoomService
}

// NewRoomHandler 创建 RoomHandler 实例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// RoomResponse 定义单个房间查询的响应结构体
type RoomResponse struct {
	RoomID      string   `json:"room_id"`
	Code        string   `json:"code"`
	Language    string   `json:"language"`
	ActiveUsers []string `json:"active_users"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// GetRoom 处理查询单个房间持久化状态的请求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	// 1. 从路径参数中获取房间 ID
	roomID := c.Param("room_id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id is required"})
		return
	}
	logCtx := logrus.WithField("room_id", roomID)

	// 2. 调用 Service 层查询房间
	room, err := h.roomService.GetRoom(c.Request.Context(), roomID)

	// 3. 处理 Service 返回的错误
	if err != nil {
		logCtx.WithError(err).Debug("Handler.GetRoom: Failed to get room via service")
		HandleServiceError(c, err)
		return
	}

	// 4. 成功响应
	activeUsers := room.ActiveUsers
	if activeUsers == nil {
		activeUsers = []string{}
	}
	SuccessResponse(c, http.StatusOK, RoomResponse{
		RoomID:      room.RoomID,
		Code:        room.Code,
		Language:    room.Language,
		ActiveUsers: activeUsers,
		CreatedAt:   room.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   room.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// RoomSummary 定义房间列表项的响应结构体
type RoomSummary struct {
	RoomID      string `json:"room_id"`
	Language    string `json:"language"`
	ActiveUsers int    `json:"active_users"`
	UpdatedAt   string `json:"updated_at"`
}

// ListRooms 处理查询全部房间摘要的请求
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListRooms(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Handler.ListRooms: Failed to list rooms via service")
		HandleServiceError(c, err)
		return
	}

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, RoomSummary{
			RoomID:      room.RoomID,
			Language:    room.Language,
			ActiveUsers: len(room.ActiveUsers),
			UpdatedAt:   room.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	SuccessResponse(c, http.StatusOK, gin.H{"rooms": summaries})
}
