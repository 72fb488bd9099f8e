package password

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm names a supported password hashing scheme.
type Algorithm string

const (
	// AlgorithmBcrypt selects bcrypt (default).
	AlgorithmBcrypt Algorithm = "bcrypt"
	// AlgorithmArgon2id selects Argon2id.
	AlgorithmArgon2id Algorithm = "argon2id"
)

var (
	// ErrHashFailed is returned when a hash cannot be produced.
	ErrHashFailed = errors.New("password hashing failed")
	// ErrMalformedHash is returned by Verify when the stored hash cannot be parsed.
	ErrMalformedHash = errors.New("malformed password hash")
)

// Hasher is a one-way salted adaptive password hash.
//
// Verify returns (false, nil) on mismatch. An error means the stored hash is
// unusable, never that the password was wrong.
type Hasher interface {
	Algorithm() Algorithm
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) (bool, error)
	NeedsRehash(encoded string) bool
}

// Config selects the primary algorithm and its parameters.
type Config struct {
	Algorithm  Algorithm
	BcryptCost int
	Argon2     Argon2Config
}

// New builds a [Multi] hasher that hashes with cfg.Algorithm and verifies
// hashes produced by any supported algorithm.
func New(cfg Config) (*Multi, error) {
	bc, err := NewBcrypt(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	argonCfg := cfg.Argon2
	if argonCfg == (Argon2Config{}) {
		argonCfg = DefaultArgon2Config()
	}
	ar, err := NewArgon2(argonCfg)
	if err != nil {
		return nil, err
	}

	m := &Multi{bcrypt: bc, argon2: ar}
	switch cfg.Algorithm {
	case "", AlgorithmBcrypt:
		m.primary = bc
	case AlgorithmArgon2id:
		m.primary = ar
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", cfg.Algorithm)
	}
	return m, nil
}

// Multi hashes with one primary algorithm and dispatches verification on the
// encoded hash prefix, so switching algorithms keeps old credentials valid.
type Multi struct {
	primary Hasher
	bcrypt  *Bcrypt
	argon2  *Argon2
}

// Algorithm implements [Hasher].
func (m *Multi) Algorithm() Algorithm {
	return m.primary.Algorithm()
}

// Hash implements [Hasher].
func (m *Multi) Hash(plaintext string) (string, error) {
	return m.primary.Hash(plaintext)
}

// Verify implements [Hasher].
func (m *Multi) Verify(plaintext, encoded string) (bool, error) {
	h, err := m.forEncoded(encoded)
	if err != nil {
		return false, err
	}
	return h.Verify(plaintext, encoded)
}

// NeedsRehash implements [Hasher]. Hashes from a non-primary algorithm always
// need a rehash.
func (m *Multi) NeedsRehash(encoded string) bool {
	h, err := m.forEncoded(encoded)
	if err != nil {
		return true
	}
	if h.Algorithm() != m.primary.Algorithm() {
		return true
	}
	return h.NeedsRehash(encoded)
}

func (m *Multi) forEncoded(encoded string) (Hasher, error) {
	switch {
	case strings.HasPrefix(encoded, "$"+argon2ID+"$"):
		return m.argon2, nil
	case isBcryptHash(encoded):
		return m.bcrypt, nil
	default:
		return nil, fmt.Errorf("%w: unknown hash format", ErrMalformedHash)
	}
}
