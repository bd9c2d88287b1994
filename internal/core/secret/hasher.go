// Package secret provides one-way hashing of user secrets. Plaintext secrets
// exist only as arguments here; they are never stored or logged.
package secret

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor used in production.
const DefaultCost = 12

// Hasher hashes and verifies secrets with bcrypt at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the salted bcrypt digest of plain. bcrypt rejects secrets
// longer than 72 bytes; callers validate length before reaching here.
func (h *Hasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest. The comparison is done by
// bcrypt itself, which is constant-time over the digest.
func (h *Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
