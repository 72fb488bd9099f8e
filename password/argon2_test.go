package password

import (
	"errors"
	"strings"
	"testing"
)

func fastArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      minMemoryKB,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2HashAndVerify(t *testing.T) {
	hasher, err := NewArgon2(fastArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	hash, err := hasher.Hash("Abcdef12")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}

	ok, err := hasher.Verify("Abcdef12", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected password verification to succeed")
	}

	ok, err = hasher.Verify("Abcdef13", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password verification to fail")
	}
}

func TestArgon2NeedsRehash(t *testing.T) {
	weak, err := NewArgon2(fastArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 weak error: %v", err)
	}
	hash, err := weak.Hash("Abcdef12")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	stronger := fastArgon2Config()
	stronger.Time = 2
	strong, err := NewArgon2(stronger)
	if err != nil {
		t.Fatalf("NewArgon2 strong error: %v", err)
	}

	if weak.NeedsRehash(hash) {
		t.Fatal("expected no rehash for matching params")
	}
	if !strong.NeedsRehash(hash) {
		t.Fatal("expected rehash when time cost increased")
	}
}

func TestArgon2VerifyMalformedHash(t *testing.T) {
	hasher, err := NewArgon2(fastArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	cases := []string{
		"",
		"not-a-phc",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
	}
	for _, tc := range cases {
		if _, err := hasher.Verify("Abcdef12", tc); !errors.Is(err, ErrMalformedHash) {
			t.Fatalf("expected ErrMalformedHash for %q, got %v", tc, err)
		}
	}
}

func TestNewArgon2RejectsWeakConfig(t *testing.T) {
	cfg := fastArgon2Config()
	cfg.Memory = 1024
	if _, err := NewArgon2(cfg); err == nil {
		t.Fatal("expected weak memory to be rejected")
	}

	cfg = fastArgon2Config()
	cfg.SaltLength = 8
	if _, err := NewArgon2(cfg); err == nil {
		t.Fatal("expected short salt to be rejected")
	}
}
