package scrambleAuth_test

import (
	"context"
	"testing"
	"time"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
	"github.com/MrEthical07/scrambleAuth/password"
	"github.com/MrEthical07/scrambleAuth/userstore/memstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type testEngine struct {
	*scrambleAuth.Engine
	store *memstore.Store
	mr    *miniredis.Miniredis
	rdb   *redis.Client
	sink  *scrambleAuth.ChannelSink
}

func engineTestConfig() scrambleAuth.Config {
	cfg := scrambleAuth.DefaultConfig()
	cfg.JWT.AccessSecret = []byte("access-secret-0123456789abcdef")
	cfg.JWT.RefreshSecret = []byte("refresh-secret-0123456789abcdef")
	cfg.JWT.AccessTTL = 15 * time.Minute
	cfg.JWT.RefreshTTL = 24 * time.Hour
	// Cheapest accepted Argon2id parameters keep the suite fast.
	cfg.Password.Algorithm = password.AlgorithmArgon2id
	cfg.Password.Argon2 = password.Argon2Config{
		Memory:      8192,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
	return cfg
}

func newTestEngine(t testing.TB, mutate ...func(*scrambleAuth.Config)) *testEngine {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr:        mr.Addr(),
		MaxRetries:  1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := engineTestConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	store := memstore.New()
	sink := scrambleAuth.NewChannelSink(64)

	engine, err := scrambleAuth.New().
		WithConfig(cfg).
		WithCredentialStore(store).
		WithRedis(rdb).
		WithNotificationSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testEngine{Engine: engine, store: store, mr: mr, rdb: rdb, sink: sink}
}

func scenarioSignup() scrambleAuth.SignupRequest {
	return scrambleAuth.SignupRequest{
		Email:     "a@b.com",
		Password:  "Abcdef12",
		Name:      "A",
		Gender:    scrambleAuth.GenderMale,
		UsageType: scrambleAuth.UsagePersonal,
	}
}

func mustSignup(t testing.TB, e *testEngine, req scrambleAuth.SignupRequest) *scrambleAuth.AuthResult {
	t.Helper()
	res, err := e.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return res
}

func waitNotification(t testing.TB, sink *scrambleAuth.ChannelSink) scrambleAuth.Notification {
	t.Helper()
	select {
	case n := <-sink.Events():
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification")
	}
	return scrambleAuth.Notification{}
}
