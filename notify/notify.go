// Package notify surfaces transient success/error/loading states to the
// console user. The edit controller emits one loading notification per
// remote operation and must resolve it explicitly with a success or error;
// loading notifications never auto-expire.
// File: notify/notify.go
package notify

import (
	"encoding/json"
	"fmt"
	"sync"

	"go-footy-trivia/logger"
)

// Notification levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelLoading = "loading"
)

// Event is one toast pushed to connected console pages.
type Event struct {
	Level         string `json:"level"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
}

// Publisher delivers a serialised event to whoever is listening; the
// websocket hub implements this.
type Publisher interface {
	Publish(msg []byte)
}

// Notifier is the channel the edit controller emits on. Loading returns a
// correlation id that a later Success or Error call resolves. Passing an
// empty correlation id to Success/Error emits a standalone toast.
type Notifier interface {
	Loading(message string) string
	Success(correlationID, message string)
	Error(correlationID, message string)
}

// ----------------------- channel notifier -----------------------

// ChannelNotifier publishes events and tracks unresolved loading toasts.
type ChannelNotifier struct {
	mu      sync.Mutex
	pub     Publisher
	next    int
	pending map[string]string // correlation id -> loading message
}

var _ Notifier = (*ChannelNotifier)(nil)

// NewChannelNotifier creates a notifier publishing to pub. A nil publisher is
// allowed; events are then only logged.
func NewChannelNotifier(pub Publisher) *ChannelNotifier {
	return &ChannelNotifier{pub: pub, pending: make(map[string]string)}
}

// Loading emits a loading toast and returns its correlation id.
func (n *ChannelNotifier) Loading(message string) string {
	n.mu.Lock()
	n.next++
	id := fmt.Sprintf("toast-%d", n.next)
	n.pending[id] = message
	n.mu.Unlock()

	n.publish(Event{Level: LevelLoading, Message: message, CorrelationID: id})
	return id
}

// Success resolves the loading toast with the given id, or emits a standalone
// success toast when id is empty.
func (n *ChannelNotifier) Success(correlationID, message string) {
	n.resolve(LevelSuccess, correlationID, message)
}

// Error resolves the loading toast with the given id, or emits a standalone
// error toast when id is empty.
func (n *ChannelNotifier) Error(correlationID, message string) {
	n.resolve(LevelError, correlationID, message)
}

// Pending returns the unresolved loading messages keyed by correlation id.
// Mostly useful to tests and the health endpoint.
func (n *ChannelNotifier) Pending() map[string]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[string]string, len(n.pending))
	for k, v := range n.pending {
		out[k] = v
	}
	return out
}

func (n *ChannelNotifier) resolve(level, correlationID, message string) {
	if correlationID != "" {
		n.mu.Lock()
		if _, ok := n.pending[correlationID]; !ok {
			logger.Warn.Printf("notify: resolving unknown correlation id %q", correlationID)
		}
		delete(n.pending, correlationID)
		n.mu.Unlock()
	}
	n.publish(Event{Level: level, Message: message, CorrelationID: correlationID})
}

func (n *ChannelNotifier) publish(ev Event) {
	logger.Info.Printf("notify: [%s] %s (%s)", ev.Level, ev.Message, ev.CorrelationID)
	if n.pub == nil {
		return
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		logger.Error.Printf("notify: marshal event failed: %v", err)
		return
	}
	n.pub.Publish(msg)
}
