package kitchen

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and streams kitchen events until the
// client goes away.
func (h *Hub) ServeWS(room string) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.log.Warn("websocket upgrade failed", "error", err)
			return
		}

		sub := h.Subscribe(room, sendBufferSize)
		go h.writePump(conn, sub)
		go h.readPump(conn, sub)
	}
}

// writePump is the single writer for the connection, which keeps per-order
// events in publish order on the wire.
func (h *Hub) writePump(conn *websocket.Conn, sub *Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.Events():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.Unsubscribe(sub)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.Unsubscribe(sub)
				return
			}
		}
	}
}

// readPump discards inbound frames; it exists to notice disconnects and keep
// the pong handler serviced.
func (h *Hub) readPump(conn *websocket.Conn, sub *Subscription) {
	defer func() {
		h.Unsubscribe(sub)
		conn.Close()
	}()
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
