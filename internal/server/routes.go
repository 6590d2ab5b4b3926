package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal"
	"github.com/gorilla/mux"
)

const (
	maxArtifactBody     = internal.MaxArtifactBytes*4/3 + 1024
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Apply CORS middleware
	r.Use(s.corsMiddleware)

	r.HandleFunc("/", s.HelloWorldHandler)
	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)

	r.HandleFunc("/rooms", s.ListRoomsHandler).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/game/{roomId}/{playerId}/drawing", s.UploadDrawingHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/game/{roomId}/drawings", s.DrawingsHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/game/{roomId}/history", s.HistoryHandler).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/ws", s.gateway.HandleWebSocket)

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case s.allowsAnyOrigin():
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && s.checkOrigin(r):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		// If it's a websocket upgrade, the gateway checks the origin itself
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Masquerade session server"})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":  "up",
		"rooms":   s.engine.Rooms().Len(),
		"players": s.engine.Players().Len(),
	}
	status := http.StatusOK
	if s.db != nil {
		dbHealth := s.db.Health()
		health["database"] = dbHealth
		if dbHealth["status"] != "up" {
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	s.writeJSON(w, status, health)
}

func (s *Server) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()

	resp := internal.Response{
		StatusCode:    http.StatusOK,
		RespStartTime: startTime,
		Data:          s.engine.Rooms().List(),
	}

	// Calculate response times
	endTime := time.Now().UnixMilli()
	resp.RespEndTime = endTime
	resp.NetRespTime = endTime - startTime

	s.writeJSON(w, resp.StatusCode, resp)
}

// UploadDrawingHandler stores a participant's mask. The body is a JSON string
// holding the encoded image; a bare body is accepted as well.
func (s *Server) UploadDrawingHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID, playerID := vars["roomId"], vars["playerId"]

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxArtifactBody))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, "mask is too large")
		return
	}

	encoded := string(body)
	var asString string
	if err := json.Unmarshal(body, &asString); err == nil {
		encoded = asString
	}

	if err := s.engine.SetArtifact(roomID, playerID, encoded); err != nil {
		s.log.Debug().Err(err).Str("room", roomID).Str("player", playerID).Msg("[UploadDrawing] rejected")
		s.writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DrawingsHandler returns every participant's mask keyed by user id. Only
// available while the room is voting.
func (s *Server) DrawingsHandler(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	masks, err := s.engine.Artifacts(roomID)
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}
	if len(masks) == 0 {
		s.writeError(w, http.StatusNotFound, "no drawings in room "+roomID)
		return
	}
	s.writeJSON(w, http.StatusOK, masks)
}

func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, http.StatusServiceUnavailable, "round history is disabled")
		return
	}
	roomID := mux.Vars(r)["roomId"]

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	rounds, err := s.db.RecentRounds(r.Context(), roomID, limit)
	if err != nil {
		s.log.Error().Err(err).Str("room", roomID).Msg("[History] query failed")
		s.writeError(w, http.StatusInternalServerError, "could not load round history")
		return
	}
	if rounds == nil {
		rounds = []internal.RoundRecord{}
	}
	s.writeJSON(w, http.StatusOK, rounds)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, internal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internal.ErrProtocol):
		return http.StatusBadRequest
	case errors.Is(err, internal.ErrStateConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("error encoding response")
	}
}
