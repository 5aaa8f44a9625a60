package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// TokenValidator verifies a session token and returns the user id.
type TokenValidator interface {
	Validate(token string) (int64, error)
}

// Server upgrades HTTP connections to WebSockets for the live dashboard feed.
type Server struct {
	manager      *Manager
	tokens       TokenValidator
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds ws server.
func NewServer(manager *Manager, tokens TokenValidator, writeTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		manager:      manager,
		tokens:       tokens,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is the HTTP handler for /ws. Browsers pass boat_id and their session
// token as query parameters since WebSocket clients cannot set headers.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	boatID := r.URL.Query().Get("boat_id")
	if boatID == "" {
		http.Error(w, "boat_id is required", http.StatusBadRequest)
		return
	}

	userID, err := s.tokens.Validate(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	connection := NewConnection(boatID, conn, s.writeTimeout, s.logger, func(c *Connection) {
		s.manager.Remove(boatID, c)
		cancel()
	})
	s.manager.Add(boatID, connection)

	go connection.Start(ctx)
	s.logger.Info("dashboard subscriber connected",
		zap.String("boat_id", boatID),
		zap.Int64("user_id", userID),
	)
}
