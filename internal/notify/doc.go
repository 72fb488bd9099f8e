// Package notify implements fire-and-forget delivery of user notifications
// (welcome, login, password-reset).
//
// # Components
//
//   - [Sink] is the delivery interface (log, channel, JSON writer, Redis queue).
//   - [Dispatcher] is a buffered async relay. Enqueue never blocks the caller
//     when the buffer is full; the notification is dropped and counted.
//   - [Notification] is the delivery record.
//
// # Architecture boundaries
//
// This package owns buffering and sink delivery. It does NOT decide which
// notifications to send; the engine does. Delivery failures are logged and
// counted, never returned to the caller that enqueued the notification.
//
// # What this package must NOT do
//
//   - Import scrambleAuth or any sibling internal package.
//   - Retry deliveries. A queue consumer behind [RedisQueueSink] owns retries.
package notify
