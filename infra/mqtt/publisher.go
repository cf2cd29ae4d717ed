package mqtt

import (
	"context"
	"sync"

	coremqtt "github.com/kilianp07/rotation/core/mqtt"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MockPublisher records rotations in memory. It is used in tests and by
// dry runs that should not reach a broker.
type MockPublisher struct {
	Messages     []coremqtt.RotationMessage
	Err          error
	Disconnected bool
	mu           sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// PublishRotation records the message or returns Err when set.
func (m *MockPublisher) PublishRotation(ctx context.Context, msg coremqtt.RotationMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

// Published returns a copy of the recorded messages.
func (m *MockPublisher) Published() []coremqtt.RotationMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]coremqtt.RotationMessage(nil), m.Messages...)
}

// Disconnect marks the publisher closed.
func (m *MockPublisher) Disconnect() {
	m.mu.Lock()
	m.Disconnected = true
	m.mu.Unlock()
}
