package scrambleAuth

import (
	"io"
	"log/slog"

	"github.com/MrEthical07/scrambleAuth/internal/notify"
	"github.com/redis/go-redis/v9"
)

// Notification is one outbound message (welcome, login, password-reset).
type Notification = notify.Notification

// NotificationKind names a notification template.
type NotificationKind = notify.Kind

// NotificationSink delivers notifications. Deliver runs on the dispatcher
// goroutine; its errors are logged and counted, never returned to callers.
type NotificationSink = notify.Sink

// QueueJob is the JSON payload written by [RedisQueueSink].
type QueueJob = notify.QueueJob

const (
	NotificationWelcome       NotificationKind = notify.KindWelcome
	NotificationLogin         NotificationKind = notify.KindLogin
	NotificationPasswordReset NotificationKind = notify.KindPasswordReset
)

// NoOpSink discards notifications.
type NoOpSink = notify.NoOpSink

// ChannelSink forwards notifications to a buffered channel.
type ChannelSink = notify.ChannelSink

// NewChannelSink returns a sink whose Events channel has the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	return notify.NewChannelSink(buffer)
}

// JSONWriterSink writes one JSON object per line to an io.Writer.
type JSONWriterSink = notify.JSONWriterSink

// NewJSONWriterSink returns a sink writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return notify.NewJSONWriterSink(w)
}

// LogSink records notifications as structured log lines.
type LogSink = notify.LogSink

// NewLogSink returns a sink logging through logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return notify.NewLogSink(logger)
}

// RedisQueueSink pushes notifications as jobs onto a Redis list consumed by
// an external mail worker.
type RedisQueueSink = notify.RedisQueueSink

// NewRedisQueueSink returns a sink pushing onto queue.
func NewRedisQueueSink(client redis.UniversalClient, queue string) *RedisQueueSink {
	return notify.NewRedisQueueSink(client, queue)
}
