package service

// Conn 表示一个可寻址的客户端连接，由传输层（hub.Client）实现。
// Coordinator 只依赖连接的不透明标识，不接触底层 WebSocket。
type Conn interface {
	ID() string
}

// Broadcaster 是 Room Coordinator 依赖的广播传输抽象，由 hub.Hub 实现。
// 发送都是尽力而为的非阻塞语义：慢客户端不会反压协调逻辑。
type Broadcaster interface {
	// Enter 将连接加入传输层的房间。
	Enter(conn Conn, roomID string)
	// Leave 将连接移出传输层的房间。
	Leave(conn Conn, roomID string)
	// ToRoom 向房间内所有连接广播一个事件。
	ToRoom(roomID string, event string, data interface{})
	// ToRoomExcept 向房间内除 except 外的所有连接广播一个事件。
	ToRoomExcept(roomID string, event string, data interface{}, except Conn)
	// ToConn 向单个连接单播一个事件。
	ToConn(conn Conn, event string, data interface{})
}
