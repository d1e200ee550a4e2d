package hub

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client 代表一个连接到 Hub 的 WebSocket 客户端。
// 连接 ID 是一次性的不透明标识，房间归属由 session.Registry 维护。
type Client struct {
	hub  *Hub            // 所属的 Hub
	conn *websocket.Conn // WebSocket 连接
	id   string          // 连接唯一标识
	send chan []byte     // 向此客户端发送消息的缓冲通道
}

// NewClient 创建一个新的 Client 实例。
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		id:   uuid.NewString(),
		send: make(chan []byte, 256),
	}
}

// ID 返回连接的不透明标识，实现 service.Conn。
func (c *Client) ID() string { return c.id }

// Run 启动客户端的读写 goroutine。
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

// CloseConn 直接关闭底层连接。
func (c *Client) CloseConn() { c.conn.Close() }

// enqueue 非阻塞地把消息放入发送队列；慢客户端的队列满时丢弃消息，
// 由它自己的 WritePump 或断线检测负责善后。
func (c *Client) enqueue(message []byte) {
	select {
	case c.send <- message:
	default:
		logrus.WithField("conn_id", c.id).Warn("Client send channel full, dropping message")
	}
}

// requestUnregister 请求 Hub 注销此客户端。
// 阻塞直到 Hub 接收请求或已停机：注销丢失会在 clients/rooms
// 和在场集合里留下幽灵用户，所以不能像普通事件那样超时放弃。
func (c *Client) requestUnregister() {
	unregisterMsg := HubMessage{Type: "unregister", Client: c}
	select {
	case c.hub.messageChan <- unregisterMsg:
	case <-c.hub.done:
		logrus.WithField("conn_id", c.id).Debug("Hub stopped, skipping unregister")
	}
}

// ReadPump 将消息从 WebSocket 连接泵送到 Hub 的处理通道。
// 在自己的 goroutine 中运行。
func (c *Client) ReadPump() {
	defer func() {
		// 清理操作：请求 Hub 注销此客户端
		c.requestUnregister()
		c.conn.Close()
		logrus.WithField("conn_id", c.id).Info("ReadPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logCtx := logrus.WithField("conn_id", c.id)
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed normally or read error")
			}
			break
		}

		// 只处理文本消息
		if messageType != websocket.TextMessage {
			logrus.WithField("conn_id", c.id).Debugf("Ignoring non-text message type: %d", messageType)
			continue
		}

		// 非阻塞发送到 Hub，处理不过来或已停机则丢弃
		c.hub.QueueMessage(HubMessage{Type: "event", Client: c, RawData: message})
	}
}

// WritePump 将消息从 send 通道泵送到 WebSocket 连接，并定期发送 Ping。
// 在自己的 goroutine 中运行。
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logrus.WithField("conn_id", c.id).Info("WritePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// send 通道被 Hub 关闭（注销时）
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithField("conn_id", c.id).WithError(err).Warn("Failed to write message to websocket")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logrus.WithField("conn_id", c.id).WithError(err).Warn("Failed to send ping message")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}
