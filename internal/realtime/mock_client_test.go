package realtime_test

import (
	"zenitsuos/backend/internal/session"
)

type MockClient struct {
	userID      string
	RecvChannel chan session.ChangeEvent
	closed      bool
}

func newMockClient(userID string, buffer int) *MockClient {
	return &MockClient{
		userID:      userID,
		RecvChannel: make(chan session.ChangeEvent, buffer),
	}
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetSendChannel() chan<- session.ChangeEvent {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed = true
}
