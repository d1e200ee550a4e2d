package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/dto"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/service"
)

// 包级别的 WebSocket 常量，供 hub 和 client 使用
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	// 整份代码文档会随 codeChange 上行，留得比聊天类应用大。
	maxMessageSize = 512 * 1024
)

// Coordinator 处理房间事件的状态转移，由 service.CollabService 实现。
type Coordinator interface {
	Join(ctx context.Context, conn service.Conn, roomID, userName string)
	CodeChange(ctx context.Context, conn service.Conn, roomID, code string)
	Typing(ctx context.Context, conn service.Conn, roomID, userName string)
	LanguageChange(ctx context.Context, conn service.Conn, roomID, language string)
	LeaveRoom(ctx context.Context, conn service.Conn)
	Disconnect(ctx context.Context, conn service.Conn)
}

// HubMessage 定义了在 Hub 内部通道传递的消息类型
type HubMessage struct {
	Type    string  // "register", "unregister", "event"
	Client  *Client // 消息来源的客户端
	RawData []byte  // 仅用于 event (原始 WebSocket 消息)
}

// Hub 维护活跃客户端集合和传输层房间成员关系，并串行分发入站事件。
//
// 主循环一次处理一个事件到底（含协调器的广播），保证同一房间的
// 在场集合不会被并发修改；持久化已由协调器移到后台，不会拖住循环。
type Hub struct {
	// 内部通道，处理所有来自 Client 的事件
	messageChan chan HubMessage
	// 停机信号。messageChan 永不关闭，pump goroutine 在停机窗口
	// 内的发送不会 panic，生产者只需观察 done
	done     chan struct{}
	stopOnce sync.Once

	// 全部活跃客户端，按连接 ID 索引
	clients map[string]*Client
	// 传输层房间成员关系 map[roomID]map[*Client]bool
	rooms map[string]map[*Client]bool
	// 保护 clients 和 rooms 的读写锁（广播与 pump goroutine 并发读）
	mu sync.RWMutex

	// 注入的协调器，处理业务状态转移
	coordinator Coordinator
}

// NewHub 创建并返回一个新的 Hub 实例。
// 协调器依赖 Hub 作为其 Broadcaster，因此通过 SetCoordinator 二次注入。
func NewHub() *Hub {
	return &Hub{
		messageChan: make(chan HubMessage, 512),
		done:        make(chan struct{}),
		clients:     make(map[string]*Client),
		rooms:       make(map[string]map[*Client]bool),
	}
}

// SetCoordinator 注入协调器，必须在 Run 之前调用。
func (h *Hub) SetCoordinator(c Coordinator) {
	if c == nil {
		panic("Coordinator cannot be nil for Hub")
	}
	h.coordinator = c
}

// Run 启动 Hub 的主事件处理循环，应在单独的 goroutine 中运行。
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	if h.coordinator == nil {
		panic("Hub.Run called before SetCoordinator")
	}
	log.Info("Hub is running...")

	for {
		select {
		case <-h.done:
			log.Info("Hub is shutting down...")
			return
		case msg := <-h.messageChan:
			switch msg.Type {
			case "register":
				h.registerClient(msg.Client)
			case "unregister":
				h.unregisterClient(msg.Client)
			case "event":
				// 串行处理：一个事件的状态转移和广播完成后才取下一个
				h.dispatch(msg.Client, msg.RawData)
			default:
				log.Warnf("Hub: received unknown message type: %s", msg.Type)
			}
		}
	}
}

// Stop 发出停机信号，令 Run 退出。幂等，可以安全地重复调用。
// 不关闭 messageChan：还连着的客户端 pump 随后的发送只会被丢弃。
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// QueueMessage 将消息放入 Hub 的处理队列 (非阻塞)。
// 返回 false 表示 Hub 已停机或队列已满，消息被丢弃。
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case <-h.done:
		logrus.WithField("message_type", msg.Type).Debug("Hub stopped, dropping message")
		return false
	default:
	}
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("message_type", msg.Type).Warn("Hub message channel full, dropping message")
		return false
	}
}

// registerClient 记录新连接。此时连接尚未加入任何房间。
func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}
	h.mu.Lock()
	h.clients[client.ID()] = client
	h.mu.Unlock()
	logrus.WithField("conn_id", client.ID()).Info("Client registered to Hub")
}

// unregisterClient 处理连接断开：先让协调器做离开转移（广播给余下成员），
// 再清理传输层状态并关闭发送通道。
func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to unregister a nil client")
		return
	}
	logCtx := logrus.WithField("conn_id", client.ID())

	h.coordinator.Disconnect(context.Background(), client)

	h.mu.Lock()
	if _, ok := h.clients[client.ID()]; ok {
		delete(h.clients, client.ID())
		// 防御性清理：正常情况下协调器的 Leave 已把客户端移出房间
		for roomID, members := range h.rooms {
			if members[client] {
				delete(members, client)
				if len(members) == 0 {
					delete(h.rooms, roomID)
				}
			}
		}
		// 关闭 send 通道，令 WritePump 退出。
		// clients 表的存在性检查保证每个客户端只走到这里一次。
		close(client.send)
	}
	h.mu.Unlock()
	logCtx.Info("Client unregistered from Hub")
}

// dispatch 解析入站事件外层并调用协调器。
// 负载格式错误（缺必填字段等）只丢弃并记日志，绝不让处理循环崩溃。
func (h *Hub) dispatch(client *Client, raw []byte) {
	logCtx := logrus.WithField("conn_id", client.ID())

	var envelope dto.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		logCtx.WithError(err).Warn("Dropping malformed event envelope")
		return
	}
	logCtx = logCtx.WithField("event", envelope.Event)
	ctx := context.Background()

	switch envelope.Event {
	case dto.EventJoin:
		var p dto.JoinPayload
		if err := json.Unmarshal(envelope.Data, &p); err != nil || p.RoomID == "" || p.UserName == "" {
			logCtx.WithError(err).Warn("Dropping join event with invalid payload")
			return
		}
		h.coordinator.Join(ctx, client, p.RoomID, p.UserName)

	case dto.EventCodeChange:
		var p dto.CodeChangePayload
		if err := json.Unmarshal(envelope.Data, &p); err != nil || p.RoomID == "" {
			logCtx.WithError(err).Warn("Dropping codeChange event with invalid payload")
			return
		}
		h.coordinator.CodeChange(ctx, client, p.RoomID, p.Code)

	case dto.EventTyping:
		var p dto.TypingPayload
		if err := json.Unmarshal(envelope.Data, &p); err != nil || p.RoomID == "" || p.UserName == "" {
			logCtx.WithError(err).Warn("Dropping typing event with invalid payload")
			return
		}
		h.coordinator.Typing(ctx, client, p.RoomID, p.UserName)

	case dto.EventLanguageChange:
		var p dto.LanguageChangePayload
		if err := json.Unmarshal(envelope.Data, &p); err != nil || p.RoomID == "" || p.Language == "" {
			logCtx.WithError(err).Warn("Dropping languageChange event with invalid payload")
			return
		}
		h.coordinator.LanguageChange(ctx, client, p.RoomID, p.Language)

	case dto.EventLeaveRoom:
		h.coordinator.LeaveRoom(ctx, client)

	default:
		logCtx.Warn("Dropping event with unknown type")
	}
}

// --- service.Broadcaster 实现 ---

// Enter 将连接加入传输层房间，房间不存在时惰性创建。
func (h *Hub) Enter(conn service.Conn, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[conn.ID()]
	if !ok {
		logrus.WithFields(logrus.Fields{"conn_id": conn.ID(), "room_id": roomID}).
			Warn("Enter: connection not registered")
		return
	}
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[roomID] = members
	}
	members[client] = true
}

// Leave 将连接移出传输层房间，房间变空时回收。
func (h *Hub) Leave(conn service.Conn, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[conn.ID()]
	if !ok {
		return
	}
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// ToRoom 向房间内所有连接广播一个事件。
func (h *Hub) ToRoom(roomID string, event string, data interface{}) {
	h.sendToRoom(roomID, event, data, "")
}

// ToRoomExcept 向房间内除 except 外的所有连接广播一个事件。
func (h *Hub) ToRoomExcept(roomID string, event string, data interface{}, except service.Conn) {
	h.sendToRoom(roomID, event, data, except.ID())
}

// ToConn 向单个连接单播一个事件。
func (h *Hub) ToConn(conn service.Conn, event string, data interface{}) {
	message, err := encodeEvent(event, data)
	if err != nil {
		logrus.WithError(err).WithField("event", event).Error("Failed to marshal unicast event")
		return
	}
	h.mu.RLock()
	client, ok := h.clients[conn.ID()]
	h.mu.RUnlock()
	if !ok {
		return
	}
	client.enqueue(message)
}

func (h *Hub) sendToRoom(roomID, event string, data interface{}, exceptID string) {
	message, err := encodeEvent(event, data)
	if err != nil {
		logrus.WithError(err).WithField("event", event).Error("Failed to marshal broadcast event")
		return
	}

	// 复制接收者列表，避免发送期间长时间持锁
	h.mu.RLock()
	members := h.rooms[roomID]
	recipients := make([]*Client, 0, len(members))
	for client := range members {
		if exceptID != "" && client.ID() == exceptID {
			continue
		}
		recipients = append(recipients, client)
	}
	h.mu.RUnlock()

	for _, client := range recipients {
		client.enqueue(message)
	}
}

// encodeEvent 把事件名和数据编成统一的外层 JSON。
func encodeEvent(event string, data interface{}) ([]byte, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dto.Envelope{Event: event, Data: dataBytes})
}
