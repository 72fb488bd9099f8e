package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// Kind names a notification template.
type Kind string

const (
	KindWelcome       Kind = "welcome"
	KindLogin         Kind = "login"
	KindPasswordReset Kind = "password-reset"
)

// Notification is one message to one recipient.
type Notification struct {
	ID        string            `json:"id"`
	Kind      Kind              `json:"kind"`
	Recipient string            `json:"recipient"`
	UserID    string            `json:"userId,omitempty"`
	Payload   map[string]string `json:"payload,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// New stamps a notification with an id and creation time.
func New(kind Kind, recipient, userID string, payload map[string]string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Recipient: recipient,
		UserID:    userID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// Sink delivers notifications. Deliver may block; it runs on the
// dispatcher goroutine, never on the request path.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// NoOpSink drops notifications.
type NoOpSink struct{}

func (NoOpSink) Deliver(context.Context, Notification) error { return nil }

// LogSink writes each notification as a structured log record.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "notification",
		"id", n.ID,
		"kind", string(n.Kind),
		"recipient", n.Recipient,
		"user_id", n.UserID,
	)
	return nil
}

// ChannelSink writes notifications into a buffered channel.
type ChannelSink struct {
	events chan Notification
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Notification, buffer),
	}
}

func (s *ChannelSink) Deliver(ctx context.Context, n Notification) error {
	select {
	case s.events <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ChannelSink) Events() <-chan Notification {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Deliver(_ context.Context, n Notification) error {
	if s == nil || s.writer == nil {
		return nil
	}
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data = append(data, '\n')
	_, err = s.writer.Write(data)
	return err
}

// QueueJob is the payload pushed onto the Redis list. Consumers pop from
// the right end (BRPOP) to get FIFO order.
type QueueJob struct {
	Name         string       `json:"name"`
	Notification Notification `json:"data"`
	Attempts     int          `json:"attempts"`
}

// RedisQueueSink pushes notifications as JSON jobs onto a Redis list for an
// out-of-process mail worker.
type RedisQueueSink struct {
	redis redis.UniversalClient
	queue string
}

func NewRedisQueueSink(client redis.UniversalClient, queue string) *RedisQueueSink {
	return &RedisQueueSink{redis: client, queue: queue}
}

func (s *RedisQueueSink) Deliver(ctx context.Context, n Notification) error {
	data, err := json.Marshal(QueueJob{
		Name:         fmt.Sprintf("send-%s-email", n.Kind),
		Notification: n,
		Attempts:     3,
	})
	if err != nil {
		return oops.In("notify").With("kind", string(n.Kind)).Wrap(err)
	}
	if err := s.redis.LPush(ctx, s.queue, data).Err(); err != nil {
		return oops.
			Code("NOTIFY_ENQUEUE_FAILED").
			In("notify").
			With("queue", s.queue).
			With("kind", string(n.Kind)).
			Wrap(err)
	}
	return nil
}
