// Package session 持有连接与房间之间的内存映射。
//
// Registry 是全部可变在场状态的唯一所有者：连接到 (房间, 用户名) 的绑定，
// 以及每个房间的在场用户名集合。Hub 的主循环对事件串行处理，锁主要保护
// 与后台任务（如周期性在场快照同步）之间的并发读。
package session

import "sync"

type binding struct {
	roomID      string
	displayName string
}

// Registry 是连接与房间/用户名的内存双向映射，不做任何 I/O。
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]binding         // connID -> (roomID, displayName)
	presence map[string]map[string]bool // roomID -> 在场用户名集合
}

// NewRegistry 创建一个空的 Registry。
func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[string]binding),
		presence: make(map[string]map[string]bool),
	}
}

// Bind 记录连接当前所在的房间和用户名，覆盖之前的绑定。幂等，不会失败。
func (r *Registry) Bind(connID, roomID, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[connID] = binding{roomID: roomID, displayName: displayName}
}

// Unbind 移除并返回连接之前的绑定；连接没有绑定时 ok 为 false。
func (r *Registry) Unbind(connID string) (roomID, displayName string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bindings[connID]
	if !ok {
		return "", "", false
	}
	delete(r.bindings, connID)
	return b.roomID, b.displayName, true
}

// Lookup 只读查询连接当前的绑定。
func (r *Registry) Lookup(connID string) (roomID, displayName string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[connID]
	if !ok {
		return "", "", false
	}
	return b.roomID, b.displayName, true
}

// AddName 将用户名加入房间的在场集合，房间的实时视图不存在时惰性创建。
// 集合语义：重名的连接合并为一条在场记录（沿用既有行为的已知局限）。
func (r *Registry) AddName(roomID, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.presence[roomID]
	if !ok {
		set = make(map[string]bool)
		r.presence[roomID] = set
	}
	set[displayName] = true
}

// RemoveName 将用户名从房间的在场集合移除。
// 集合变空时回收房间的实时视图，避免内存随历史房间数无限增长。
func (r *Registry) RemoveName(roomID, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.presence[roomID]
	if !ok {
		return
	}
	delete(set, displayName)
	if len(set) == 0 {
		delete(r.presence, roomID)
	}
}

// Names 返回房间当前在场的用户名列表，顺序不保证。
func (r *Registry) Names(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.presence[roomID]
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	return names
}

// LiveRooms 返回当前存在实时视图的房间 ID 列表，供后台快照同步使用。
func (r *Registry) LiveRooms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]string, 0, len(r.presence))
	for roomID := range r.presence {
		rooms = append(rooms, roomID)
	}
	return rooms
}
