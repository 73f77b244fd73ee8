package leaderboarddomain

import (
	"errors"
	"fmt"

	"github.com/decred/base58"
)

// IdentitySize is the length of a player identity in bytes.
const IdentitySize = 32

// ErrInvalidIdentity is returned when a string is not a base58 32-byte key.
var ErrInvalidIdentity = errors.New("invalid identity")

// Identity is a player's public key. It is the natural key of a leaderboard entry.
type Identity [IdentitySize]byte

// ParseIdentity decodes a base58 public key.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	raw := base58.Decode(s)
	if len(raw) != IdentitySize {
		return id, fmt.Errorf("%w: %q decodes to %d bytes", ErrInvalidIdentity, s, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// MustParseIdentity is ParseIdentity for constants and tests.
func MustParseIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String renders the identity in base58.
func (id Identity) String() string {
	return base58.Encode(id[:])
}

// IsZero reports whether the identity is all zero bytes.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
