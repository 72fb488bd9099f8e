package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinBcryptCost is the lowest cost accepted for new hashes.
const MinBcryptCost = 12

// Bcrypt hashes passwords with bcrypt at a fixed cost.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. A zero cost selects [MinBcryptCost].
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = MinBcryptCost
	}
	if cost < MinBcryptCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d", MinBcryptCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Algorithm implements [Hasher].
func (b *Bcrypt) Algorithm() Algorithm {
	return AlgorithmBcrypt
}

// Hash implements [Hasher]. bcrypt only reads the first 72 bytes of input;
// longer plaintexts are rejected rather than silently truncated.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashFailed, err)
	}
	return string(out), nil
}

// Verify implements [Hasher].
func (b *Bcrypt) Verify(plaintext, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// NeedsRehash implements [Hasher].
func (b *Bcrypt) NeedsRehash(encoded string) bool {
	cost, err := bcrypt.Cost([]byte(encoded))
	if err != nil {
		return true
	}
	return cost < b.cost
}

func isBcryptHash(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}
