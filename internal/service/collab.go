package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/domain"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/dto"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/repository"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/session"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/tasks"
)

const (
	// syncLoadTimeout 限制 join 时同步读库的耗时，持久层慢不能拖住连接处理。
	syncLoadTimeout = 3 * time.Second
	// bestEffortTimeout 限制缓存写入和任务入队的耗时。
	bestEffortTimeout = 1 * time.Second
)

// CollabService 是房间协调核心：负责 join/leave/切换房间的状态转移、
// 新加入者与持久化状态的对账，以及决定向谁广播什么。
//
// 所有事件由 Hub 主循环串行送入，单个事件处理到底后才处理下一个；
// 持久化失败只降级（记日志），不会中断内存状态转移和广播。
type CollabService struct {
	registry  *session.Registry
	roomRepo  repository.RoomRepository
	stateRepo repository.StateRepository
	queue     repository.TaskQueue
	transport Broadcaster
}

// NewCollabService 创建 CollabService 实例。
func NewCollabService(
	registry *session.Registry,
	roomRepo repository.RoomRepository,
	stateRepo repository.StateRepository,
	queue repository.TaskQueue,
	transport Broadcaster,
) *CollabService {
	if registry == nil || roomRepo == nil || stateRepo == nil || queue == nil || transport == nil {
		panic("all dependencies must be non-nil for CollabService")
	}
	return &CollabService{
		registry:  registry,
		roomRepo:  roomRepo,
		stateRepo: stateRepo,
		queue:     queue,
		transport: transport,
	}
}

// Join 处理连接加入房间。连接已经在别的房间时先做一次隐式离开。
func (s *CollabService) Join(ctx context.Context, conn Conn, roomID, userName string) {
	logCtx := logrus.WithFields(logrus.Fields{
		"conn_id":   conn.ID(),
		"room_id":   roomID,
		"user_name": userName,
	})

	// 1. 已在房间内：先隐式离开旧房间
	if oldRoom, oldName, ok := s.registry.Lookup(conn.ID()); ok {
		logCtx.WithField("old_room_id", oldRoom).Debug("Join: implicit leave of previous room")
		s.detachFromRoom(ctx, conn, oldRoom, oldName)
	}

	// 2. 进入传输层房间
	s.transport.Enter(conn, roomID)

	// 3/4. 加入在场集合并更新绑定
	s.registry.AddName(roomID, userName)
	s.registry.Bind(conn.ID(), roomID, userName)

	// 5. 加载持久化记录；存在则只向加入者单播当前文档（晚加入者同步）
	if doc := s.loadDocument(ctx, roomID, logCtx); doc != nil {
		s.transport.ToConn(conn, dto.EventCodeUpdate, doc.Code)
		s.transport.ToConn(conn, dto.EventLanguageUpdate, doc.Language)
	}

	// 6. 把活跃用户快照写回持久化记录（记录不存在时按默认值创建）
	s.persistPresence(ctx, roomID, logCtx)

	// 7. 向房间内所有连接（含加入者）广播最新在场列表
	s.transport.ToRoom(roomID, dto.EventUserJoined, s.registry.Names(roomID))
	logCtx.Info("User joined room")
}

// CodeChange 处理代码变更：持久化后广播给房间内除发送者外的所有连接。
// 发送者不会收到自己的编辑回显。
func (s *CollabService) CodeChange(ctx context.Context, conn Conn, roomID, code string) {
	logCtx := logrus.WithFields(logrus.Fields{"conn_id": conn.ID(), "room_id": roomID})

	s.transport.ToRoomExcept(roomID, dto.EventCodeUpdate, code, conn)

	cacheCtx, cancel := context.WithTimeout(ctx, bestEffortTimeout)
	defer cancel()
	if err := s.stateRepo.SetCode(cacheCtx, roomID, code); err != nil {
		logCtx.WithError(err).Warn("Failed to cache code update")
	}
	s.enqueuePersist(ctx, tasks.RoomPersistPayload{RoomID: roomID, Code: &code}, logCtx)
}

// Typing 广播正在输入提示，除发送者外。纯瞬时信号，不持久化。
func (s *CollabService) Typing(ctx context.Context, conn Conn, roomID, userName string) {
	s.transport.ToRoomExcept(roomID, dto.EventUserTyping, userName, conn)
}

// LanguageChange 处理语言切换：持久化后广播给房间内所有连接。
// 与 CodeChange 不同，语言变更会回显给发送者本人，这是刻意保留的不对称。
func (s *CollabService) LanguageChange(ctx context.Context, conn Conn, roomID, language string) {
	logCtx := logrus.WithFields(logrus.Fields{"conn_id": conn.ID(), "room_id": roomID, "language": language})

	s.transport.ToRoom(roomID, dto.EventLanguageUpdate, language)

	cacheCtx, cancel := context.WithTimeout(ctx, bestEffortTimeout)
	defer cancel()
	if err := s.stateRepo.SetLanguage(cacheCtx, roomID, language); err != nil {
		logCtx.WithError(err).Warn("Failed to cache language update")
	}
	s.enqueuePersist(ctx, tasks.RoomPersistPayload{RoomID: roomID, Language: &language}, logCtx)
}

// LeaveRoom 处理显式的离开房间请求。连接没有绑定时是无操作。
func (s *CollabService) LeaveRoom(ctx context.Context, conn Conn) {
	roomID, name, ok := s.registry.Unbind(conn.ID())
	if !ok {
		logrus.WithField("conn_id", conn.ID()).Debug("LeaveRoom: connection has no binding, no-op")
		return
	}
	s.detachFromRoom(ctx, conn, roomID, name)
	logrus.WithFields(logrus.Fields{"conn_id": conn.ID(), "room_id": roomID, "user_name": name}).
		Info("User left room")
}

// Disconnect 处理传输层连接断开，效果与 LeaveRoom 相同。
// 与 LeaveRoom 互为幂等：两者先后触发或重复触发都不会二次移除。
func (s *CollabService) Disconnect(ctx context.Context, conn Conn) {
	s.LeaveRoom(ctx, conn)
}

// detachFromRoom 执行离开房间的公共序列：
// 移除在场记录 -> 持久化快照 -> 向房间广播新列表 -> 退出传输层房间。
func (s *CollabService) detachFromRoom(ctx context.Context, conn Conn, roomID, name string) {
	logCtx := logrus.WithFields(logrus.Fields{"conn_id": conn.ID(), "room_id": roomID, "user_name": name})

	s.registry.RemoveName(roomID, name)
	s.persistPresence(ctx, roomID, logCtx)
	s.transport.ToRoom(roomID, dto.EventUserJoined, s.registry.Names(roomID))
	s.transport.Leave(conn, roomID)
}

// loadDocument 为晚加入者加载房间文档：先查 Redis 缓存，未命中再读 MySQL。
// 记录不存在时播种缓存并返回 nil（加入者不收同步单播）；
// 读库失败按"无记录"降级，协作继续，只是本次不同步。
func (s *CollabService) loadDocument(ctx context.Context, roomID string, logCtx *logrus.Entry) *domain.Document {
	cacheCtx, cancel := context.WithTimeout(ctx, bestEffortTimeout)
	doc, err := s.stateRepo.GetDocument(cacheCtx, roomID)
	cancel()
	if err == nil {
		return doc
	}
	if !errors.Is(err, repository.ErrNotFound) {
		logCtx.WithError(err).Warn("Failed to read document cache, falling back to database")
	}

	loadCtx, cancel := context.WithTimeout(ctx, syncLoadTimeout)
	defer cancel()
	room, err := s.roomRepo.FindByID(loadCtx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			// 首次加入：记录尚不存在。播种缓存，后续加入者能直接同步到默认文档。
			s.cacheDocument(ctx, roomID, domain.Document{Code: "", Language: domain.DefaultLanguage}, logCtx)
			return nil
		}
		logCtx.WithError(err).Error("Failed to load room record, joining without sync")
		return nil
	}

	loaded := domain.Document{Code: room.Code, Language: room.Language}
	s.cacheDocument(ctx, roomID, loaded, logCtx)
	return &loaded
}

func (s *CollabService) cacheDocument(ctx context.Context, roomID string, doc domain.Document, logCtx *logrus.Entry) {
	cacheCtx, cancel := context.WithTimeout(ctx, bestEffortTimeout)
	defer cancel()
	if err := s.stateRepo.SetDocument(cacheCtx, roomID, doc); err != nil {
		logCtx.WithError(err).Warn("Failed to seed document cache")
	}
}

// persistPresence 把房间当前的在场集合作为活跃用户快照入队持久化。
func (s *CollabService) persistPresence(ctx context.Context, roomID string, logCtx *logrus.Entry) {
	names := s.registry.Names(roomID)
	s.enqueuePersist(ctx, tasks.RoomPersistPayload{RoomID: roomID, ActiveUsers: &names}, logCtx)
}

// enqueuePersist 尽力而为地入队一个持久化任务，失败只记日志。
func (s *CollabService) enqueuePersist(ctx context.Context, payload tasks.RoomPersistPayload, logCtx *logrus.Entry) {
	data, err := tasks.NewRoomPersistTask(payload)
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal room persist payload")
		return
	}
	queueCtx, cancel := context.WithTimeout(ctx, bestEffortTimeout)
	defer cancel()
	if err := s.queue.Enqueue(queueCtx, tasks.TypeRoomPersist, data); err != nil {
		// 持久化不可用时协作继续工作，改动暂不落库
		logCtx.WithError(err).Warn("Failed to enqueue room persist task, collaboration continues degraded")
	}
}
