package websocket

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/kloda-app/kloda/backend/internal/logging"
	"github.com/kloda-app/kloda/backend/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Uptime is one frame of the uptime stream.
type Uptime struct {
	Days int    `json:"days"`
	Time string `json:"time"`
}

// FormatUptime splits d into whole days and the HH:MM:SS.mmm remainder.
func FormatUptime(d time.Duration) Uptime {
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond

	return Uptime{Days: days, Time: fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)}
}

// UptimeHandler streams the server uptime to websocket clients.
type UptimeHandler struct {
	started  time.Time
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewUptimeHandler(started time.Time, interval time.Duration, allowedOrigins []string) *UptimeHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &UptimeHandler{
		started:  started,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

func (h *UptimeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("uptime websocket upgrade failed")
		return
	}

	metrics.UptimeConnections.Inc()
	defer metrics.UptimeConnections.Dec()

	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, done)
}

// readPump discards client messages and handles pongs; it closes done when
// the client goes away.
func (h *UptimeHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Msg("uptime websocket closed unexpectedly")
			}
			return
		}
	}
}

// writePump is the only writer of conn.
func (h *UptimeHandler) writePump(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(h.interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			data, err := json.Marshal(FormatUptime(time.Since(h.started)))
			if err != nil {
				logging.Error().Err(err).Msg("failed to encode uptime")
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
