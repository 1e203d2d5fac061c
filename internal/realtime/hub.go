// Package realtime pushes session change events to connected dashboards so
// they re-render without polling.
package realtime

import (
	"log"

	"zenitsuos/backend/internal/session"
)

// Hub owns the set of connected clients. All membership changes and
// broadcasts run on the single Run goroutine.
type Hub struct {
	Clients map[Client]bool

	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan session.ChangeEvent
}

func NewHub() *Hub {
	return &Hub{
		Clients:      make(map[Client]bool),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan session.ChangeEvent),
	}
}

// Run is the hub dispatcher. Start it once from main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.RegisterCh:
			h.Clients[client] = true
			log.Printf("realtime: client %s connected (%d active)", client.GetUserID(), len(h.Clients))

		case client := <-h.UnregisterCh:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Close()
				log.Printf("realtime: client %s disconnected (%d active)", client.GetUserID(), len(h.Clients))
			}

		case ev := <-h.BroadcastCh:
			for client := range h.Clients {
				select {
				case client.GetSendChannel() <- ev:
				default:
					// A client that cannot keep up is dropped rather
					// than blocking the dispatcher.
					delete(h.Clients, client)
					client.Close()
				}
			}
		}
	}
}

// Forward drains a session subscription into the hub. Run it as a
// goroutine.
func (h *Hub) Forward(events <-chan session.ChangeEvent) {
	for ev := range events {
		h.BroadcastCh <- ev
	}
}
