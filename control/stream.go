package control

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tvxlabs/mediabridge/log"
)

const writeWait = 5 * time.Second

// handleStream pushes a Status every interval until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("control: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reads only detect the close; clients send nothing.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if !s.push(ctx, conn) {
			return
		}

		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) push(ctx context.Context, conn *websocket.Conn) bool {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	st, err := s.snapshot(callCtx)
	cancel()
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error()), time.Now().Add(writeWait))
		return false
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(st); err != nil {
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			log.Debugf("control: websocket write: %v", err)
		}
		return false
	}
	return true
}
