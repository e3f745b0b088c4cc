package notify

import (
	"sync"

	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

// Buffer collects notifications until they are drained into a response.
type Buffer struct {
	mu    sync.Mutex
	queue []port.Notification
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Notify(level port.Level, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queue = append(b.queue, port.Notification{Level: level, Message: message})
}

// Drain returns the pending notifications and empties the buffer.
func (b *Buffer) Drain() []port.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	drained := b.queue
	b.queue = nil
	return drained
}

type logNotifier struct {
	logger *zap.Logger
}

// Log returns a Notifier that writes every message to the logger.
func Log(logger *zap.Logger) port.Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(level port.Level, message string) {
	if level == port.LevelError {
		n.logger.Warn("notification", zap.String("level", string(level)), zap.String("message", message))
		return
	}
	n.logger.Info("notification", zap.String("level", string(level)), zap.String("message", message))
}

type tee []port.Notifier

// Tee fans every notification out to all notifiers.
func Tee(notifiers ...port.Notifier) port.Notifier {
	return tee(notifiers)
}

func (t tee) Notify(level port.Level, message string) {
	for _, n := range t {
		n.Notify(level, message)
	}
}
