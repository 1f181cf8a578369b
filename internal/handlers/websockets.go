package handlers

import (
	"time"

	"interval_timer/internal/engine"
	"interval_timer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	// Updates arrive at most once per tick; a slow client may lag this far
	// behind before updates are dropped for it.
	wsUpdateBuffer = 32
)

// Envelope types sent to clients.
const (
	envelopeState    = "state"
	envelopeAnnounce = "announce"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{CheckOrigin: h.checkOrigin}
}

// wsConnect streams the timer: the current state on connect, then every
// announcement followed by the new state as they happen.
func (h *Handler) wsConnect(c *gin.Context) {
	up := h.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Subscribe before reading the initial state so nothing is missed in between.
	updates, unsubscribe := h.services.Subscriber.Subscribe(wsUpdateBuffer)
	defer unsubscribe()

	done := make(chan struct{})
	go h.startReader(conn, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_get_state_failed", "err", err)
		}
		_ = writeEnvelope(conn, wsEnvelope{Type: envelopeState, Error: errGetState})
		return
	}
	if err := writeEnvelope(conn, wsEnvelope{Type: envelopeState, Data: st}); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := sendUpdate(conn, u); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func sendUpdate(conn *websocket.Conn, u service.Update) error {
	for _, ev := range u.Events {
		if ev.Kind != engine.EventAnnounce {
			continue
		}
		if err := writeEnvelope(conn, wsEnvelope{Type: envelopeAnnounce, Data: ev}); err != nil {
			return err
		}
	}
	return writeEnvelope(conn, wsEnvelope{Type: envelopeState, Data: u.State})
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
