package realtime

import "zenitsuos/backend/internal/session"

// Client is the interface for a connected dashboard. It abstracts the
// underlying transport so the hub can manage client types uniformly.
type Client interface {
	// GetUserID returns the declared user id behind the connection.
	GetUserID() string

	// GetSendChannel returns the channel the hub pushes change events
	// into. It is a send-only channel.
	GetSendChannel() chan<- session.ChangeEvent

	// Run starts the client's pumps.
	Run()
	// Close shuts the client's send channel down.
	Close()
}
