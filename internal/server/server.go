package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/database"
	"github.com/Pixel-Sprout/Gatecrasher-GGJ2026/internal/game"
	"github.com/rs/zerolog"
)

type Server struct {
	engine  *game.Engine
	gateway *game.Gateway
	db      database.Service
	origins []string
	log     zerolog.Logger
}

// New wires the HTTP surface around an engine. db may be nil, in which case
// round history is unavailable.
func New(engine *game.Engine, db database.Service, origins []string, sendBuffer int, logger zerolog.Logger) *Server {
	s := &Server{
		engine:  engine,
		db:      db,
		origins: origins,
		log:     logger.With().Str("component", "http").Logger(),
	}
	s.gateway = game.NewGateway(engine, s.checkOrigin, sendBuffer, logger)
	return s
}

func NewServer(addr string, s *Server) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func (s *Server) allowsAnyOrigin() bool {
	return len(s.origins) == 0 || slices.Contains(s.origins, "*")
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.allowsAnyOrigin() {
		return true
	}
	return slices.Contains(s.origins, origin)
}
