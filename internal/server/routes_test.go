package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/database"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/game"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/mocks"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAIAAACQd1PeAAAADElEQVR4nGP4z8AAAAMBAQDJ/pLvAAAAAElFTkSuQmCC"

type nopConn struct{ id string }

func (c nopConn) ID() string     { return c.id }
func (c nopConn) Send(any) error { return nil }
func (c nopConn) Close() error   { return nil }
func newConn() internal.Conn     { return nopConn{id: uuid.NewString()} }

func newTestServer(t *testing.T, db database.Service, origins ...string) (*Server, *game.Engine) {
	t.Helper()
	settings := internal.DefaultSettings()
	settings.PlayCutscenes = false

	engine, err := game.NewEngine(game.Options{
		Defaults:       settings,
		ReconnectGrace: time.Hour,
		Logger:         zerolog.Nop(),
	})
	require.NoError(t, err)
	return New(engine, db, origins, 0, zerolog.Nop()), engine
}

// startRound fills a room with three players and readies them up until the
// room reaches phase.
func startRound(t *testing.T, engine *game.Engine, phase internal.GamePhase) (string, []*game.Session) {
	t.Helper()
	req := require.New(t)

	sessions := make([]*game.Session, 3)
	for i := range sessions {
		sessions[i] = engine.Connect("player", "", newConn())
	}
	roomID, err := engine.CreateRoom(sessions[0], "Ballroom")
	req.NoError(err)
	for _, sess := range sessions[1:] {
		req.NoError(engine.JoinRoom(sess, roomID))
	}
	t.Cleanup(func() { engine.Rooms().Remove(roomID) })

	readyAll := func() {
		for _, sess := range sessions {
			req.NoError(engine.ToggleReady(sess))
		}
	}
	readyAll()
	if phase == internal.PhaseVoting {
		readyAll()
	}

	room, ok := engine.Rooms().Get(roomID)
	req.True(ok)
	room.Mu.Lock()
	current := room.Phase.Current
	room.Mu.Unlock()
	req.Equal(phase, current)
	return roomID, sessions
}

func do(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	srv.RegisterRoutes().ServeHTTP(rr, r)
	return rr
}

func TestHelloWorldHandler(t *testing.T) {
	req := require.New(t)
	srv, _ := newTestServer(t, nil)

	rr := do(srv, http.MethodGet, "/", "")

	req.Equal(http.StatusOK, rr.Code)
	req.Equal("application/json", rr.Header().Get("Content-Type"))
	req.Contains(rr.Body.String(), "message")
}

func TestHealthHandler(t *testing.T) {
	t.Run("without database", func(t *testing.T) {
		req := require.New(t)
		srv, engine := newTestServer(t, nil)
		engine.Connect("solo", "", newConn())

		rr := do(srv, http.MethodGet, "/health", "")

		req.Equal(http.StatusOK, rr.Code)
		var body map[string]any
		req.NoError(json.Unmarshal(rr.Body.Bytes(), &body))
		req.Equal("up", body["status"])
		req.EqualValues(1, body["players"])
		req.NotContains(body, "database")
	})

	t.Run("database down", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		db := mocks.NewMockService(ctrl)
		db.EXPECT().Health().Return(map[string]string{"status": "down", "error": "boom"})
		srv, _ := newTestServer(t, db)

		rr := do(srv, http.MethodGet, "/health", "")

		req.Equal(http.StatusServiceUnavailable, rr.Code)
		req.Contains(rr.Body.String(), `"degraded"`)
	})
}

func TestListRoomsHandler(t *testing.T) {
	req := require.New(t)
	srv, engine := newTestServer(t, nil)

	// Given
	host := engine.Connect("host", "", newConn())
	roomID, err := engine.CreateRoom(host, "Ballroom")
	req.NoError(err)

	// When
	rr := do(srv, http.MethodGet, "/rooms", "")

	// Then
	req.Equal(http.StatusOK, rr.Code)
	var resp struct {
		StatusCode int                      `json:"status_code"`
		Data       []internal.RoomListEntry `json:"data"`
	}
	req.NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	req.Equal(http.StatusOK, resp.StatusCode)
	req.Len(resp.Data, 1)
	req.Equal(roomID, resp.Data[0].RoomId)
	req.Equal("Ballroom", resp.Data[0].RoomName)
	req.Equal(1, resp.Data[0].PlayerCount)
	req.Equal(internal.PhaseLobby, resp.Data[0].CurrentPhase)
}

func TestUploadDrawingHandler(t *testing.T) {
	req := require.New(t)
	srv, engine := newTestServer(t, nil)
	roomID, sessions := startRound(t, engine, internal.PhaseDrawing)
	playerID := sessions[1].UserID()

	// JSON string body
	body, _ := json.Marshal(testPNG)
	rr := do(srv, http.MethodPost, "/game/"+roomID+"/"+playerID+"/drawing", string(body))
	req.Equal(http.StatusNoContent, rr.Code)

	// bare body
	rr = do(srv, http.MethodPost, "/game/"+roomID+"/"+sessions[2].UserID()+"/drawing", testPNG)
	req.Equal(http.StatusNoContent, rr.Code)

	room, _ := engine.Rooms().Get(roomID)
	room.Mu.Lock()
	req.Equal(testPNG, room.Participant(playerID).Artifact)
	room.Mu.Unlock()
}

func TestUploadDrawingHandler_Errors(t *testing.T) {
	srv, engine := newTestServer(t, nil)
	roomID, sessions := startRound(t, engine, internal.PhaseDrawing)
	playerID := sessions[0].UserID()

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"unknown room", "/game/nope/" + playerID + "/drawing", testPNG, http.StatusNotFound},
		{"unknown player", "/game/" + roomID + "/nope/drawing", testPNG, http.StatusNotFound},
		{"empty body", "/game/" + roomID + "/" + playerID + "/drawing", `""`, http.StatusBadRequest},
		{"not an image", "/game/" + roomID + "/" + playerID + "/drawing", `"aGVsbG8gd29ybGQ="`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			rr := do(srv, http.MethodPost, tt.target, tt.body)
			req.Equal(tt.status, rr.Code)
			req.Contains(rr.Body.String(), `"error"`)
		})
	}
}

func TestUploadDrawingHandler_WrongPhase(t *testing.T) {
	req := require.New(t)
	srv, engine := newTestServer(t, nil)
	roomID, sessions := startRound(t, engine, internal.PhaseVoting)

	rr := do(srv, http.MethodPost, "/game/"+roomID+"/"+sessions[0].UserID()+"/drawing", testPNG)

	req.Equal(http.StatusBadRequest, rr.Code)
}

func TestDrawingsHandler(t *testing.T) {
	req := require.New(t)
	srv, engine := newTestServer(t, nil)

	// Given a mask uploaded while drawing
	sessions := make([]*game.Session, 3)
	for i := range sessions {
		sessions[i] = engine.Connect("player", "", newConn())
	}
	roomID, err := engine.CreateRoom(sessions[0], "Ballroom")
	req.NoError(err)
	t.Cleanup(func() { engine.Rooms().Remove(roomID) })
	for _, sess := range sessions[1:] {
		req.NoError(engine.JoinRoom(sess, roomID))
	}
	for _, sess := range sessions {
		req.NoError(engine.ToggleReady(sess))
	}
	req.NoError(engine.SetArtifact(roomID, sessions[0].UserID(), testPNG))

	// When reading before voting
	rr := do(srv, http.MethodGet, "/game/"+roomID+"/drawings", "")
	req.Equal(http.StatusBadRequest, rr.Code)

	for _, sess := range sessions {
		req.NoError(engine.ToggleReady(sess))
	}

	// Then every participant is listed once voting starts
	rr = do(srv, http.MethodGet, "/game/"+roomID+"/drawings", "")
	req.Equal(http.StatusOK, rr.Code)
	var masks map[string]string
	req.NoError(json.Unmarshal(rr.Body.Bytes(), &masks))
	req.Len(masks, 3)
	req.Equal(testPNG, masks[sessions[0].UserID()])
	req.Empty(masks[sessions[1].UserID()])

	rr = do(srv, http.MethodGet, "/game/unknown/drawings", "")
	req.Equal(http.StatusNotFound, rr.Code)
}

func TestHistoryHandler(t *testing.T) {
	t.Run("disabled without database", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)
		rr := do(srv, http.MethodGet, "/game/room-1/history", "")
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("returns recent rounds", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		db := mocks.NewMockService(ctrl)
		db.EXPECT().
			RecentRounds(gomock.Any(), "room-1", maxHistoryLimit).
			Return([]internal.RoundRecord{{RoomId: "room-1", Round: 3, Outcome: internal.OutcomeTie}}, nil)
		srv, _ := newTestServer(t, db)

		rr := do(srv, http.MethodGet, "/game/room-1/history?limit=500", "")

		req.Equal(http.StatusOK, rr.Code)
		var rounds []internal.RoundRecord
		req.NoError(json.Unmarshal(rr.Body.Bytes(), &rounds))
		req.Len(rounds, 1)
		req.Equal(3, rounds[0].Round)
	})

	t.Run("default limit and empty result", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		db := mocks.NewMockService(ctrl)
		db.EXPECT().RecentRounds(gomock.Any(), "room-2", defaultHistoryLimit).Return(nil, nil)
		srv, _ := newTestServer(t, db)

		rr := do(srv, http.MethodGet, "/game/room-2/history", "")

		req.Equal(http.StatusOK, rr.Code)
		req.JSONEq(`[]`, rr.Body.String())
	})

	t.Run("bad limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		srv, _ := newTestServer(t, mocks.NewMockService(ctrl))
		rr := do(srv, http.MethodGet, "/game/room-1/history?limit=zero", "")
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("query failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := mocks.NewMockService(ctrl)
		db.EXPECT().RecentRounds(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
		srv, _ := newTestServer(t, db)
		rr := do(srv, http.MethodGet, "/game/room-1/history", "")
		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestCorsMiddleware(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		req := require.New(t)
		srv, _ := newTestServer(t, nil)

		rr := do(srv, http.MethodOptions, "/rooms", "")

		req.Equal(http.StatusNoContent, rr.Code)
		req.Equal("*", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list", func(t *testing.T) {
		req := require.New(t)
		srv, _ := newTestServer(t, nil, "https://masquerade.example")

		r := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		r.Header.Set("Origin", "https://masquerade.example")
		rr := httptest.NewRecorder()
		srv.RegisterRoutes().ServeHTTP(rr, r)
		req.Equal("https://masquerade.example", rr.Header().Get("Access-Control-Allow-Origin"))

		r = httptest.NewRequest(http.MethodGet, "/rooms", nil)
		r.Header.Set("Origin", "https://evil.example")
		rr = httptest.NewRecorder()
		srv.RegisterRoutes().ServeHTTP(rr, r)
		req.Empty(rr.Header().Get("Access-Control-Allow-Origin"))
		req.False(srv.checkOrigin(r))
	})
}

func TestNewServer(t *testing.T) {
	req := require.New(t)
	srv, _ := newTestServer(t, nil)

	httpServer := NewServer(":0", srv)

	req.Equal(":0", httpServer.Addr)
	req.NotNil(httpServer.Handler)
	req.NoError(httpServer.Shutdown(context.Background()))
}
