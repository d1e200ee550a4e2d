package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/dto"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/service"
)

// recordingCoordinator 记录每次回调的事件名和参数
type recordingCoordinator struct {
	calls []coordinatorCall
}

type coordinatorCall struct {
	method string
	connID string
	roomID string
	value  string
}

func (r *recordingCoordinator) Join(_ context.Context, conn service.Conn, roomID, userName string) {
	r.calls = append(r.calls, coordinatorCall{"Join", conn.ID(), roomID, userName})
}
func (r *recordingCoordinator) CodeChange(_ context.Context, conn service.Conn, roomID, code string) {
	r.calls = append(r.calls, coordinatorCall{"CodeChange", conn.ID(), roomID, code})
}
func (r *recordingCoordinator) Typing(_ context.Context, conn service.Conn, roomID, userName string) {
	r.calls = append(r.calls, coordinatorCall{"Typing", conn.ID(), roomID, userName})
}
func (r *recordingCoordinator) LanguageChange(_ context.Context, conn service.Conn, roomID, language string) {
	r.calls = append(r.calls, coordinatorCall{"LanguageChange", conn.ID(), roomID, language})
}
func (r *recordingCoordinator) LeaveRoom(_ context.Context, conn service.Conn) {
	r.calls = append(r.calls, coordinatorCall{"LeaveRoom", conn.ID(), "", ""})
}
func (r *recordingCoordinator) Disconnect(_ context.Context, conn service.Conn) {
	r.calls = append(r.calls, coordinatorCall{"Disconnect", conn.ID(), "", ""})
}

func newTestHub(t *testing.T) (*Hub, *recordingCoordinator) {
	t.Helper()
	h := NewHub()
	coord := &recordingCoordinator{}
	h.SetCoordinator(coord)
	return h, coord
}

// newTestClient 返回未启动 pump 的客户端，消息留在 send 通道里供断言
func newTestClient(h *Hub) *Client {
	c := NewClient(h, nil)
	h.registerClient(c)
	return c
}

func drain(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case msg := <-c.send:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestDispatch_RoutesEventsToCoordinator(t *testing.T) {
	h, coord := newTestHub(t)
	c := newTestClient(h)

	h.dispatch(c, []byte(`{"event":"join","data":{"roomId":"room-1","userName":"alice"}}`))
	h.dispatch(c, []byte(`{"event":"codeChange","data":{"roomId":"room-1","code":"x = 1"}}`))
	h.dispatch(c, []byte(`{"event":"typing","data":{"roomId":"room-1","userName":"alice"}}`))
	h.dispatch(c, []byte(`{"event":"languageChange","data":{"roomId":"room-1","language":"java"}}`))
	h.dispatch(c, []byte(`{"event":"leaveRoom","data":{}}`))

	require.Len(t, coord.calls, 5)
	assert.Equal(t, coordinatorCall{"Join", c.ID(), "room-1", "alice"}, coord.calls[0])
	assert.Equal(t, coordinatorCall{"CodeChange", c.ID(), "room-1", "x = 1"}, coord.calls[1])
	assert.Equal(t, coordinatorCall{"Typing", c.ID(), "room-1", "alice"}, coord.calls[2])
	assert.Equal(t, coordinatorCall{"LanguageChange", c.ID(), "room-1", "java"}, coord.calls[3])
	assert.Equal(t, coordinatorCall{"LeaveRoom", c.ID(), "", ""}, coord.calls[4])
}

func TestDispatch_DropsMalformedPayloads(t *testing.T) {
	h, coord := newTestHub(t)
	c := newTestClient(h)

	h.dispatch(c, []byte(`not json at all`))
	h.dispatch(c, []byte(`{"event":"join","data":{"userName":"alice"}}`))       // 缺 roomId
	h.dispatch(c, []byte(`{"event":"join","data":{"roomId":"room-1"}}`))        // 缺 userName
	h.dispatch(c, []byte(`{"event":"codeChange","data":{"code":"x"}}`))         // 缺 roomId
	h.dispatch(c, []byte(`{"event":"languageChange","data":{"roomId":"r"}}`))   // 缺 language
	h.dispatch(c, []byte(`{"event":"somethingElse","data":{"roomId":"room-1"}}`)) // 未知事件

	assert.Empty(t, coord.calls)
}

func TestDispatch_EmptyCodeIsForwarded(t *testing.T) {
	h, coord := newTestHub(t)
	c := newTestClient(h)

	// 清空编辑器是合法操作，code 为空串不能当成坏负载丢掉
	h.dispatch(c, []byte(`{"event":"codeChange","data":{"roomId":"room-1","code":""}}`))

	require.Len(t, coord.calls, 1)
	assert.Equal(t, coordinatorCall{"CodeChange", c.ID(), "room-1", ""}, coord.calls[0])
}

func TestBroadcast_ToRoomExceptSkipsSender(t *testing.T) {
	h, _ := newTestHub(t)
	sender := newTestClient(h)
	peer := newTestClient(h)
	outsider := newTestClient(h)

	h.Enter(sender, "room-1")
	h.Enter(peer, "room-1")
	h.Enter(outsider, "room-2")

	h.ToRoomExcept("room-1", dto.EventCodeUpdate, "x = 1", sender)

	assert.Empty(t, drain(sender))
	assert.Empty(t, drain(outsider))

	messages := drain(peer)
	require.Len(t, messages, 1)
	var envelope dto.Envelope
	require.NoError(t, json.Unmarshal(messages[0], &envelope))
	assert.Equal(t, dto.EventCodeUpdate, envelope.Event)
	var code string
	require.NoError(t, json.Unmarshal(envelope.Data, &code))
	assert.Equal(t, "x = 1", code)
}

func TestBroadcast_ToRoomIncludesEveryMember(t *testing.T) {
	h, _ := newTestHub(t)
	a := newTestClient(h)
	b := newTestClient(h)
	h.Enter(a, "room-1")
	h.Enter(b, "room-1")

	h.ToRoom("room-1", dto.EventLanguageUpdate, "java")

	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
}

func TestBroadcast_ToConnUnicastsOnlyTarget(t *testing.T) {
	h, _ := newTestHub(t)
	a := newTestClient(h)
	b := newTestClient(h)
	h.Enter(a, "room-1")
	h.Enter(b, "room-1")

	h.ToConn(a, dto.EventCodeUpdate, "seed")

	assert.Len(t, drain(a), 1)
	assert.Empty(t, drain(b))
}

func TestLeave_RemovesFromRoomAndEvictsEmptyRoom(t *testing.T) {
	h, _ := newTestHub(t)
	a := newTestClient(h)
	h.Enter(a, "room-1")

	h.Leave(a, "room-1")
	h.ToRoom("room-1", dto.EventLanguageUpdate, "java")

	assert.Empty(t, drain(a))
	h.mu.RLock()
	_, exists := h.rooms["room-1"]
	h.mu.RUnlock()
	assert.False(t, exists)
}

func TestStop_QueueMessageDroppedWithoutPanic(t *testing.T) {
	h, _ := newTestHub(t)
	c := newTestClient(h)

	h.Stop()

	// 停机后 pump goroutine 还可能继续投递，发送必须只是被丢弃
	assert.NotPanics(t, func() {
		ok := h.QueueMessage(HubMessage{Type: "event", Client: c, RawData: []byte(`{}`)})
		assert.False(t, ok)
	})
	assert.NotPanics(t, func() {
		c.requestUnregister()
	})
}

func TestStop_IsIdempotent(t *testing.T) {
	h, _ := newTestHub(t)
	assert.NotPanics(t, func() {
		h.Stop()
		h.Stop()
	})
}

func TestStop_RunLoopExits(t *testing.T) {
	h, _ := newTestHub(t)
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	h.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after Stop")
	}
}

func TestRequestUnregister_WaitsForHubInsteadOfDropping(t *testing.T) {
	h, _ := newTestHub(t)
	c := newTestClient(h)

	// 填满消息队列，模拟 Hub 短暂处理不过来
	for h.QueueMessage(HubMessage{Type: "event", Client: c, RawData: []byte(`{}`)}) {
	}

	delivered := make(chan struct{})
	go func() {
		c.requestUnregister()
		close(delivered)
	}()

	// 队列满时注销请求不能被放弃，必须等到 Hub 腾出位置
	select {
	case <-delivered:
		t.Fatal("unregister request was dropped while the hub channel was full")
	case <-time.After(50 * time.Millisecond):
	}

	<-h.messageChan // 腾出一个位置

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("unregister request was not delivered after the hub drained")
	}
}

func TestRequestUnregister_ReturnsWhenHubStopped(t *testing.T) {
	h, _ := newTestHub(t)
	c := newTestClient(h)

	for h.QueueMessage(HubMessage{Type: "event", Client: c, RawData: []byte(`{}`)}) {
	}
	h.Stop()

	returned := make(chan struct{})
	go func() {
		c.requestUnregister()
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("unregister request blocked forever after hub stop")
	}
}

func TestUnregister_InvokesDisconnectOnce(t *testing.T) {
	h, coord := newTestHub(t)
	a := newTestClient(h)
	h.Enter(a, "room-1")

	h.unregisterClient(a)

	require.Len(t, coord.calls, 1)
	assert.Equal(t, "Disconnect", coord.calls[0].method)
	h.mu.RLock()
	_, stillRegistered := h.clients[a.ID()]
	h.mu.RUnlock()
	assert.False(t, stillRegistered)
}
