package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"neon-arena/mocks"
	"neon-arena/observability"
	"neon-arena/runtime"
	"neon-arena/runtime/workers"
	"neon-arena/services"
)

type wsFixture struct {
	server *httptest.Server
	url    string
}

// startStack boots the real arena behind an httptest websocket endpoint.
func startStack(t *testing.T) *wsFixture {
	t.Helper()
	log := slog.Default()
	ctrl := gomock.NewController(t)

	repository := mocks.NewMockISessionRepository(ctrl)
	repository.EXPECT().Record(gomock.Any()).Return(nil).AnyTimes()
	repository.EXPECT().Update(gomock.Any()).Return(nil).AnyTimes()

	settler := mocks.NewMockSettler(ctrl)
	settler.EXPECT().Settle(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	arena := runtime.NewArena(
		log,
		workers.NewSupervisor(log, 50*time.Millisecond),
		runtime.NewRegistry(),
		repository,
		settler,
		observability.NewServerStats(),
		64, 16,
		time.Minute, 50*time.Millisecond, time.Second, time.Hour,
		3, time.Millisecond,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = arena.Start(ctx) }()

	server := NewServer(log, services.NewArenaService(arena), observability.NewServerStats(), time.Second)
	httpServer := httptest.NewServer(server.Routes())
	t.Cleanup(func() {
		httpServer.Close()
		cancel()
		arena.Stop()
	})

	// CreateSession refuses work until Start has installed the run context.
	require.Eventually(t, func() bool {
		_, err := arena.CreateSession("snake", -1, -2)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	return &wsFixture{
		server: httpServer,
		url:    "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws",
	}
}

func (f *wsFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(f.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// Every fresh connection is greeted first
	msg := readType(t, conn, typeWelcome)
	require.Equal(t, typeWelcome, msg.Type)
	return conn
}

type wireMessage struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp json.RawMessage `json:"timestamp"`
}

func readType(t *testing.T, conn *websocket.Conn, wanted string) wireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg wireMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == wanted {
			return msg
		}
		require.NotEqual(t, typeError, msg.Type, "unexpected error frame: "+msg.Message)
	}
}

func readError(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg wireMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == typeError {
			return msg.Message
		}
	}
}

func TestServer_CreateJoinAndPlayOverWebsocket(t *testing.T) {
	req := require.New(t)
	f := startStack(t)

	p1 := f.dial(t)
	p2 := f.dial(t)

	// Create
	req.NoError(p1.WriteJSON(map[string]any{
		"action":     "create_game",
		"game_type":  "snake",
		"player1_id": 1,
		"player2_id": 2,
	}))
	created := readType(t, p1, typeGameCreated)

	var info struct {
		GameID   string  `json:"game_id"`
		GameType string  `json:"game_type"`
		Players  []int64 `json:"players"`
	}
	req.NoError(json.Unmarshal(created.Data, &info))
	req.NotEmpty(info.GameID)
	req.Equal("snake", info.GameType)
	req.Equal([]int64{1, 2}, info.Players)

	// Join both seats
	req.NoError(p1.WriteJSON(map[string]any{"action": "join", "player_id": 1, "game_id": info.GameID}))
	readType(t, p1, typeGameState)
	req.NoError(p2.WriteJSON(map[string]any{"action": "join", "player_id": 2, "game_id": info.GameID}))
	readType(t, p2, typeGameState)
	readType(t, p1, typeGameStarted)
	readType(t, p2, typeGameStarted)

	// A move from player one is broadcast to both connections
	req.NoError(p1.WriteJSON(map[string]any{
		"action":    "move",
		"game_id":   info.GameID,
		"move_data": map[string]any{"direction": "LEFT"},
	}))
	update := readType(t, p1, typeGameState)
	var snapshot struct {
		Status string `json:"status"`
		State  struct {
			Player1Direction string `json:"player1_direction"`
		} `json:"state"`
	}
	req.NoError(json.Unmarshal(update.Data, &snapshot))
	req.Equal("active", snapshot.Status)
	req.Equal("LEFT", snapshot.State.Player1Direction)
	readType(t, p2, typeGameState)

	// A losing move ends the game on both connections
	req.NoError(p1.WriteJSON(map[string]any{
		"action":    "move",
		"game_id":   info.GameID,
		"move_data": map[string]any{"direction": "RIGHT"},
	}))
	ended := readType(t, p1, typeGameEnded)
	var outcome struct {
		WinnerID int64 `json:"winner_id"`
	}
	req.NoError(json.Unmarshal(ended.Data, &outcome))
	req.EqualValues(2, outcome.WinnerID)
	readType(t, p2, typeGameEnded)
}

func TestServer_MalformedAndInvalidRequests(t *testing.T) {
	req := require.New(t)
	f := startStack(t)
	conn := f.dial(t)

	// Not JSON at all
	req.NoError(conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	req.NotEmpty(readError(t, conn))

	// Unknown action
	req.NoError(conn.WriteJSON(map[string]any{"action": "teleport"}))
	req.NotEmpty(readError(t, conn))

	// Missing fields fail validation
	req.NoError(conn.WriteJSON(map[string]any{"action": "create_game", "game_type": "snake"}))
	req.NotEmpty(readError(t, conn))

	// Identical player ids are refused
	req.NoError(conn.WriteJSON(map[string]any{
		"action": "create_game", "game_type": "snake",
		"player1_id": 5, "player2_id": 5,
	}))
	req.NotEmpty(readError(t, conn))

	// Moving without having joined anything
	req.NoError(conn.WriteJSON(map[string]any{
		"action": "move", "game_id": "whatever",
		"move_data": map[string]any{"direction": "UP"},
	}))
	req.NotEmpty(readError(t, conn))

	// The connection survived every failure above
	req.NoError(conn.WriteJSON(map[string]any{"action": "ping", "timestamp": 12345}))
	pong := readType(t, conn, typePong)
	req.Equal("12345", string(pong.Timestamp))
}
