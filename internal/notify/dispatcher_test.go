package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type blockingSink struct {
	release chan struct{}
	seen    atomic.Int32
}

func (s *blockingSink) Deliver(ctx context.Context, n Notification) error {
	<-s.release
	s.seen.Add(1)
	return nil
}

type failingSink struct{}

func (failingSink) Deliver(context.Context, Notification) error {
	return errors.New("smtp down")
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	d.Send(context.Background(), New(KindWelcome, "a@b.com", "u1", nil))
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher must report zero drops")
	}
}

func TestDispatcherDeliversAndDrainsOnClose(t *testing.T) {
	sink := NewChannelSink(4)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)

	d.Send(context.Background(), New(KindWelcome, "a@b.com", "u1", map[string]string{"name": "A"}))
	d.Close()

	select {
	case n := <-sink.Events():
		if n.Kind != KindWelcome || n.Recipient != "a@b.com" || n.ID == "" {
			t.Fatalf("unexpected notification: %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatal("expected notification to be delivered")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	var drops atomic.Int32
	d := NewDispatcher(Config{
		Enabled:    true,
		BufferSize: 1,
		OnDrop:     func() { drops.Add(1) },
	}, sink)

	for i := 0; i < 10; i++ {
		d.Send(context.Background(), New(KindLogin, "a@b.com", "u1", nil))
	}

	if d.Dropped() == 0 || drops.Load() == 0 {
		t.Fatal("expected drops when buffer is full")
	}

	close(sink.release)
	d.Close()
}

func TestDispatcherCountsFailures(t *testing.T) {
	var failures atomic.Int32
	d := NewDispatcher(Config{
		Enabled:    true,
		BufferSize: 2,
		OnFailure:  func() { failures.Add(1) },
	}, failingSink{})

	d.Send(context.Background(), New(KindWelcome, "a@b.com", "u1", nil))
	d.Close()

	if d.Failed() != 1 || failures.Load() != 1 {
		t.Fatalf("expected one failure, got %d", d.Failed())
	}
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	if err := sink.Deliver(context.Background(), New(KindWelcome, "a@b.com", "u1", nil)); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	var got Notification
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	if got.Kind != KindWelcome {
		t.Fatalf("unexpected kind %q", got.Kind)
	}
}

func TestRedisQueueSinkPushesJob(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	sink := NewRedisQueueSink(rdb, "email:jobs")
	if err := sink.Deliver(context.Background(), New(KindWelcome, "a@b.com", "u1", nil)); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	items, err := mr.List("email:jobs")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one queued job, got %d", len(items))
	}

	var job QueueJob
	if err := json.Unmarshal([]byte(items[0]), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.Name != "send-welcome-email" || job.Notification.Recipient != "a@b.com" {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestRedisQueueSinkReportsOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	sink := NewRedisQueueSink(rdb, "email:jobs")
	if err := sink.Deliver(context.Background(), New(KindWelcome, "a@b.com", "u1", nil)); err == nil {
		t.Fatal("expected enqueue error when redis is down")
	}
}
