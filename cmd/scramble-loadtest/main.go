// Command scramble-loadtest measures access validation, refresh rotation
// and cached profile reads against a Redis-backed engine.
//
// Users are held in memory. Without -redis-addr or REDIS_ADDR an embedded
// miniredis is used.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
	"github.com/MrEthical07/scrambleAuth/password"
	"github.com/MrEthical07/scrambleAuth/userstore/memstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type userState struct {
	id      string
	access  string
	refresh string
	mu      sync.Mutex
}

func main() {
	var (
		users       = flag.Int("users", 1000, "number of users to sign up")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 50000, "operations per phase")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "lt:", "cache key prefix")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	engine, err := buildEngine(client, *prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	states := make([]userState, *users)
	fmt.Printf("signing up %d users...\n", *users)
	startSeed := time.Now()
	for i := range states {
		res, err := engine.Signup(ctx, scrambleAuth.SignupRequest{
			Email:    fmt.Sprintf("user%d@load.test", i),
			Password: "Loadtest123",
			Name:     fmt.Sprintf("user %d", i),
			Gender:   scrambleAuth.GenderOther,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "signup failed: %v\n", err)
			os.Exit(1)
		}
		states[i].id = res.User.ID
		states[i].access = res.AccessToken
		states[i].refresh = res.RefreshToken
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	validate := runPhase(states, *ops, *concurrency, func(s *userState) error {
		_, err := engine.ValidateAccess(ctx, s.access)
		return err
	})
	refresh := runPhase(states, *ops, *concurrency, func(s *userState) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		out, err := engine.RefreshToken(ctx, scrambleAuth.RefreshRequest{UserID: s.id, RefreshToken: s.refresh})
		if err != nil {
			return err
		}
		s.access = out.AccessToken
		if out.RefreshToken != "" {
			s.refresh = out.RefreshToken
		}
		return nil
	})
	profile := runPhase(states, *ops, *concurrency, func(s *userState) error {
		_, err := engine.GetProfile(ctx, s.id)
		return err
	})

	fmt.Println("---- results ----")
	printStats("validate", validate)
	printStats("refresh", refresh)
	printStats("profile", profile)
}

func buildEngine(client redis.UniversalClient, prefix string) (*scrambleAuth.Engine, error) {
	cfg := scrambleAuth.DefaultConfig()
	cfg.JWT.AccessSecret = []byte("loadtest-access-secret-0123456789")
	cfg.JWT.RefreshSecret = []byte("loadtest-refresh-secret-0123456789")
	cfg.JWT.AccessTTL = 15 * time.Minute
	cfg.JWT.RefreshTTL = 24 * time.Hour
	cfg.Session.KeyPrefix = prefix
	// Signup hashing is not what is measured.
	cfg.Password.Algorithm = password.AlgorithmArgon2id
	cfg.Password.Argon2 = password.Argon2Config{Memory: 8192, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	cfg.Metrics.EnableLatencyHistograms = true
	cfg.Notifications.Enabled = false

	return scrambleAuth.New().
		WithConfig(cfg).
		WithCredentialStore(memstore.New()).
		WithRedis(client).
		Build()
}

func runPhase(states []userState, ops, concurrency int, op func(*userState) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				s := &states[r.Intn(len(states))]
				t0 := time.Now()
				err := op(s)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
