package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/domain"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/repository"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/repository/mocks"
	"github.com/PRANAVSONAR23/Pair-Programming-Server/internal/service"
)

func newRoomRouter(roomRepo repository.RoomRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewRoomHandler(service.NewRoomService(roomRepo))
	router := gin.New()
	router.GET("/api/room/:room_id", handler.GetRoom)
	router.GET("/api/rooms", handler.ListRooms)
	return router
}

func TestGetRoom_ReturnsPersistedRecord(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	roomRepo.On("FindByID", mock.Anything, "room-1").Return(&domain.Room{
		RoomID:      "room-1",
		Code:        "print('hi')",
		Language:    "python",
		ActiveUsers: domain.StringList{"alice", "bob"},
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/room/room-1", nil)
	newRoomRouter(roomRepo).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp RoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "room-1", resp.RoomID)
	assert.Equal(t, "print('hi')", resp.Code)
	assert.Equal(t, "python", resp.Language)
	assert.Equal(t, []string{"alice", "bob"}, resp.ActiveUsers)
	assert.Equal(t, "2026-01-01T00:00:00Z", resp.CreatedAt)
	assert.Equal(t, "2026-01-02T03:04:05Z", resp.UpdatedAt)
	roomRepo.AssertExpectations(t)
}

func TestGetRoom_NotFoundReturnsFixedMessage(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	roomRepo.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrRoomNotFound).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/room/missing", nil)
	newRoomRouter(roomRepo).ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Room not found"}`, w.Body.String())
}

func TestGetRoom_RepositoryErrorReturns500(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	roomRepo.On("FindByID", mock.Anything, "room-1").Return(nil, errors.New("mysql down")).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/room/room-1", nil)
	newRoomRouter(roomRepo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListRooms_ReturnsSummaries(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	roomRepo.On("FindAll", mock.Anything).Return([]domain.Room{
		{RoomID: "room-1", Language: "python", ActiveUsers: domain.StringList{"alice"}},
		{RoomID: "room-2", Language: "javascript"},
	}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/rooms", nil)
	newRoomRouter(roomRepo).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Rooms []RoomSummary `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rooms, 2)
	assert.Equal(t, "room-1", resp.Rooms[0].RoomID)
	assert.Equal(t, 1, resp.Rooms[0].ActiveUsers)
	assert.Equal(t, 0, resp.Rooms[1].ActiveUsers)
}
