package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/hub"
)

// WebSocketHandler 负责处理 WebSocket 升级请求和客户端注册
type WebSocketHandler struct {
	upgrader websocket.Upgrader // WebSocket 升级器
	hub      *hub.Hub           // 依赖 Hub
}

// NewWebSocketHandler 创建 WebSocketHandler 实例
func NewWebSocketHandler(h *hub.Hub) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// 允许所有来源连接 (生产环境应配置具体的允许来源)
		CheckOrigin: func(r *http.Request) bool {
			// TODO: Implement proper origin checking for production
			return true
		},
	}

	return &WebSocketHandler{
		upgrader: upgrader,
		hub:      h,
	}
}

// HandleConnection 处理 WebSocket 连接请求
// 房间归属在连接建立后由 join 事件决定，升级时不做房间校验
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	// 1. 升级 HTTP 连接到 WebSocket
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 方法会自动发送 HTTP 错误响应，所以这里只需要记录日志
		logrus.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}

	// 2. 创建 Client 对象
	client := hub.NewClient(h.hub, conn)
	logCtx := logrus.WithField("conn_id", client.ID())
	logCtx.Info("WS Handler: Connection upgraded to WebSocket")

	// 3. 向 Hub 提交注册请求
	registerMsg := hub.HubMessage{
		Type:   "register",
		Client: client,
	}
	if !h.hub.QueueMessage(registerMsg) {
		// Hub 的通道满了，注册失败
		logCtx.Error("WS Handler: Hub message channel full, failed to register client")
		client.CloseConn()
		return
	}

	// 4. 启动客户端的读写 Goroutine
	// 后续的 WebSocket 通信由 client 的 readPump 和 writePump 处理
	go client.Run()
}
