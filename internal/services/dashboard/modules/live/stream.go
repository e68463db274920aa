package live

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/safedrive/dashboard/internal/platform/timeouts"
	"github.com/safedrive/dashboard/internal/services/dashboard/detection"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/pagerender"
	"github.com/safedrive/dashboard/internal/services/dashboard/templates"
	"go.uber.org/zap"
)

// EventSnapshot is the first message of every stream and the body of the
// current alert endpoint.
const EventSnapshot detection.EventKind = "snapshot"

const (
	pingInterval   = timeouts.WebsocketPong * 9 / 10
	maxMessageSize = 512
)

// The default origin check rejects cross-origin upgrades.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// message is one stream frame. Label is the localized alert text.
type message struct {
	Kind  detection.EventKind `json:"kind"`
	State detection.State     `json:"state"`
	Alert *detection.Alert    `json:"alert,omitempty"`
	Label string              `json:"label,omitempty"`
}

func newMessage(loc templates.Localizer, event detection.Event) message {
	msg := message{Kind: event.Kind, State: event.State, Alert: event.Alert}
	if event.Alert != nil {
		msg.Label = templates.T(loc, "%s detected", templates.AlertLabel(loc, templates.AudienceUser, event.Alert.Type))
	}
	return msg
}

func (h handlers) handleStream(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.simulator(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Debug("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	status, events, cancel := sim.Watch()
	defer cancel()

	done := make(chan struct{})
	go readPump(conn, done)

	loc := pagerender.Localizer(r)
	if err := writeJSON(conn, newMessage(loc, detection.Event{Kind: EventSnapshot, State: status.State, Alert: status.Alert})); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(timeouts.WebsocketWrite))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := writeJSON(conn, newMessage(loc, event)); err != nil {
				h.logger.Debug("websocket write", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(timeouts.WebsocketWrite))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// readPump consumes control frames until the peer goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(timeouts.WebsocketPong))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(timeouts.WebsocketPong))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeJSON(conn *websocket.Conn, msg message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(timeouts.WebsocketWrite))
	return conn.WriteJSON(msg)
}
