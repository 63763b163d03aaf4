package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/gpiostatus/internal/logging"
	"github.com/muurk/gpiostatus/internal/pinout"
	"github.com/muurk/gpiostatus/internal/statusclient"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next message or pong from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// handleStream upgrades to a WebSocket and answers one reply per request
// message until the peer goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		logging.Warn("WebSocket upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}

	s.wg.Add(1)
	s.mu.Lock()
	s.streams[conn] = r.RemoteAddr
	s.mu.Unlock()

	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.streams, conn)
		s.mu.Unlock()
		s.wg.Done()
		logging.Info("Stream closed", zap.String("remote_addr", r.RemoteAddr))
	}()

	logging.Info("Stream opened", zap.String("remote_addr", r.RemoteAddr))

	conn.SetReadLimit(maxRequestSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stop := make(chan struct{})
	defer close(stop)
	go ping(conn, stop)

	for {
		var req pinout.Request
		err := conn.ReadJSON(&req)
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case err == nil:
		case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
			if !s.reply(conn, statusclient.StreamReply{Error: "invalid request body"}) {
				return
			}
			continue
		default:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn("Stream read failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
			}
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		resp, err := s.answer(r.Context(), req)
		reply := statusclient.StreamReply{Response: resp}
		if err != nil {
			reply = statusclient.StreamReply{Error: err.Error()}
		}
		if !s.reply(conn, reply) {
			return
		}
	}
}

func (s *Server) reply(conn *websocket.Conn, reply statusclient.StreamReply) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(reply); err != nil {
		logging.Warn("Stream write failed", zap.Error(err))
		return false
	}
	return true
}

// ping keeps idle streams alive until stop is closed.
func ping(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
