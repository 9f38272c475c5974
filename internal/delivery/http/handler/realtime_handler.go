package handler

import (
	"net/http"
	"time"

	"telemed-platform/internal/service"
	"telemed-platform/pkg/response"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// RealtimeHandler upgrades authenticated clients to a WebSocket and streams
// row-change events for the requested table.
type RealtimeHandler struct {
	realtime *service.RealtimeService
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewRealtimeHandler(realtime *service.RealtimeService, log *logrus.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		realtime: realtime,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens at the CORS layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe streams change events for one table over a WebSocket
// @Summary Subscribe to table changes
// @Tags Realtime
// @Security BearerAuth
// @Param table query string true "Table to watch"
// @Param filter query string false "Optional column=value filter"
// @Router /realtime [get]
func (h *RealtimeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table == "" {
		response.Error(w, http.StatusBadRequest, "Missing table parameter", nil)
		return
	}

	sub, err := h.realtime.Subscribe(table, r.URL.Query().Get("filter"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Unsubscribe()
		h.log.Warnf("Failed to upgrade websocket: %+v", err)
		return
	}

	go h.writeLoop(conn, sub)
	go h.readLoop(conn, sub)
}

// writeLoop pushes change events and pings until the subscription or the
// connection dies.
func (h *RealtimeHandler) writeLoop(conn *websocket.Conn, sub *service.Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Unsubscribe()
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
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains control frames; a read error means the peer is gone and
// the subscription is released.
func (h *RealtimeHandler) readLoop(conn *websocket.Conn, sub *service.Subscription) {
	defer func() {
		sub.Unsubscribe()
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
