// Package mock provides a recording Notifier for tests.
package mock

import (
	"context"
	"sync"

	"github.com/cory-johannsen/tabletop/internal/notify"
)

// Notifier records every message and returns Err.
type Notifier struct {
	mu       sync.Mutex
	messages []notify.Message

	// Err is returned by Notify when non-nil. The message is still recorded.
	Err error
}

// Notify implements notify.Notifier.
func (n *Notifier) Notify(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return n.Err
}

// Messages returns a copy of the recorded messages.
func (n *Notifier) Messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.messages...)
}

// Last returns the most recent message, or the zero Message.
func (n *Notifier) Last() notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return notify.Message{}
	}
	return n.messages[len(n.messages)-1]
}
