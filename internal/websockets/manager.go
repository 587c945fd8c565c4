// Package websockets streams dispatch outcomes to connected admin panels.
package websockets

import (
	"jobfair/internal/events"
	"jobfair/internal/logger"

	"github.com/gofiber/websocket/v2"
)

type Manager struct {
	bus    *events.EventBus
	buffer int
	log    logger.Logger
}

func New(bus *events.EventBus) (*Manager, error) {
	log := logger.New("websockets").Function("New")
	if bus == nil {
		return nil, log.ErrMsg("event bus is nil")
	}

	return &Manager{
		bus:    bus,
		buffer: events.DEFAULT_SUBSCRIBER_BUFFER,
		log:    logger.New("websockets"),
	}, nil
}

// HandleWebSocket writes every outcome published on the bus to conn as JSON
// until the client goes away or the bus closes.
func (m *Manager) HandleWebSocket(conn *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	outcomes, unsubscribe := m.bus.Subscribe(m.buffer)
	defer unsubscribe()

	// Reads only detect the close; admin clients never send anything.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Debug("admin feed connected", "subscribers", m.bus.SubscriberCount())

	for {
		select {
		case <-closed:
			log.Debug("admin feed disconnected")
			return
		case outcome, ok := <-outcomes:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := conn.WriteJSON(outcome); err != nil {
				log.Debug("admin feed write failed", "error", err)
				return
			}
		}
	}
}
