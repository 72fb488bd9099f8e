package password

import (
	"math/rand"
	"strings"
	"testing"
)

const randomAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789@$!%*#?&"

func randomPassword(r *rand.Rand) string {
	n := 8 + r.Intn(24)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(randomAlphabet[r.Intn(len(randomAlphabet))])
	}
	return b.String()
}

func TestBcryptHashAndVerify(t *testing.T) {
	h, err := NewBcrypt(MinBcryptCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	hash, err := h.Hash("Abcdef12")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "Abcdef12" || !isBcryptHash(hash) {
		t.Fatalf("unexpected bcrypt encoding: %s", hash)
	}

	ok, err := h.Verify("Abcdef12", hash)
	if err != nil || !ok {
		t.Fatalf("expected verification success, ok=%v err=%v", ok, err)
	}

	ok, err = h.Verify("Abcdef13", hash)
	if err != nil {
		t.Fatalf("mismatch must not be an error: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch")
	}
}

func TestBcryptRejectsLowCost(t *testing.T) {
	if _, err := NewBcrypt(10); err == nil {
		t.Fatal("expected cost below minimum to be rejected")
	}
}

func TestBcryptSaltsEveryHash(t *testing.T) {
	h, err := NewBcrypt(MinBcryptCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	a, _ := h.Hash("Abcdef12")
	b, _ := h.Hash("Abcdef12")
	if a == b {
		t.Fatal("expected distinct hashes for identical input")
	}
}

func TestMultiVerifiesBothEncodings(t *testing.T) {
	m, err := New(Config{Algorithm: AlgorithmBcrypt, Argon2: fastArgon2Config()})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	bcryptHash, err := m.Hash("Abcdef12")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	argonHash, err := m.argon2.Hash("Abcdef12")
	if err != nil {
		t.Fatalf("argon2 Hash error: %v", err)
	}

	for _, encoded := range []string{bcryptHash, argonHash} {
		ok, err := m.Verify("Abcdef12", encoded)
		if err != nil || !ok {
			t.Fatalf("expected verify success for %q, ok=%v err=%v", encoded[:8], ok, err)
		}
	}

	if m.NeedsRehash(bcryptHash) {
		t.Fatal("primary-algorithm hash should not need rehash")
	}
	if !m.NeedsRehash(argonHash) {
		t.Fatal("non-primary hash should need rehash")
	}
}

func TestMultiRejectsUnknownFormat(t *testing.T) {
	m, err := New(Config{})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, err := m.Verify("Abcdef12", "plaintext"); err == nil {
		t.Fatal("expected error for unknown hash format")
	}
	if _, err := New(Config{Algorithm: "md5"}); err == nil {
		t.Fatal("expected unsupported algorithm to be rejected")
	}
}

func TestVerifySymmetryRandom(t *testing.T) {
	h, err := NewArgon2(fastArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 16; i++ {
		p := randomPassword(r)
		q := randomPassword(r)
		for q == p {
			q = randomPassword(r)
		}

		hash, err := h.Hash(p)
		if err != nil {
			t.Fatalf("Hash error: %v", err)
		}
		if ok, err := h.Verify(p, hash); err != nil || !ok {
			t.Fatalf("verify(p, hash(p)) = %v, %v for p=%q", ok, err, p)
		}
		if ok, err := h.Verify(q, hash); err != nil || ok {
			t.Fatalf("verify(q, hash(p)) = %v, %v for p=%q q=%q", ok, err, p, q)
		}
	}
}

func TestVerifySymmetryRandomBcrypt(t *testing.T) {
	if testing.Short() {
		t.Skip("bcrypt cost 12 is slow")
	}
	h, err := NewBcrypt(MinBcryptCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 4; i++ {
		p := randomPassword(r)
		q := p + "x"
		hash, err := h.Hash(p)
		if err != nil {
			t.Fatalf("Hash error: %v", err)
		}
		if ok, _ := h.Verify(p, hash); !ok {
			t.Fatalf("verify(p, hash(p)) failed for %q", p)
		}
		if ok, _ := h.Verify(q, hash); ok {
			t.Fatalf("verify(q, hash(p)) succeeded for %q", q)
		}
	}
}
