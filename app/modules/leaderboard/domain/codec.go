package leaderboarddomain

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

// Account record layout, little endian:
//
//	[8]  discriminator
//	u32  player count
//	per player:
//	  u32 + bytes  username
//	  [32]         identity
//	  u64          score
//	  u8           paid flag (0 or 1)
const (
	discriminatorSize = 8
	maxPlayerSize     = 4 + MaxUsernameLen + IdentitySize + 8 + 1

	// MaxAccountSize is the largest encoded leaderboard.
	MaxAccountSize = discriminatorSize + 4 + Capacity*maxPlayerSize
)

// ErrInvalidAccountData is returned when a stored account record cannot be decoded.
var ErrInvalidAccountData = errors.New("invalid leaderboard account data")

var accountDiscriminator = func() [discriminatorSize]byte {
	sum := sha256.Sum256([]byte("account:Leaderboard"))
	var d [discriminatorSize]byte
	copy(d[:], sum[:discriminatorSize])
	return d
}()

// MarshalBinary encodes the leaderboard as an account record.
func (l *Leaderboard) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, MaxAccountSize)
	buf = append(buf, accountDiscriminator[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(l.players)))

	for _, p := range l.players {
		if err := ValidateUsername(p.Username); err != nil {
			return nil, err
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.Username)))
		buf = append(buf, p.Username...)
		buf = append(buf, p.Identity[:]...)
		buf = binary.LittleEndian.AppendUint64(buf, p.Score)
		if p.HasPaid {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return buf, nil
}

// UnmarshalBinary replaces the leaderboard with the decoded account record.
func (l *Leaderboard) UnmarshalBinary(data []byte) error {
	r := accountReader{data: data}

	disc, err := r.next(discriminatorSize)
	if err != nil {
		return err
	}
	if [discriminatorSize]byte(disc) != accountDiscriminator {
		return fmt.Errorf("%w: discriminator mismatch", ErrInvalidAccountData)
	}

	count, err := r.uint32()
	if err != nil {
		return err
	}
	if count > Capacity {
		return fmt.Errorf("%w: %d players exceeds capacity %d", ErrInvalidAccountData, count, Capacity)
	}

	players := make([]Player, 0, Capacity)
	for i := uint32(0); i < count; i++ {
		p, err := r.player()
		if err != nil {
			return fmt.Errorf("player %d: %w", i, err)
		}
		players = append(players, p)
	}
	if len(r.data) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidAccountData, len(r.data))
	}

	l.players = players
	return nil
}

type accountReader struct {
	data []byte
}

func (r *accountReader) next(n int) ([]byte, error) {
	if len(r.data) < n {
		return nil, fmt.Errorf("%w: truncated record", ErrInvalidAccountData)
	}
	b := r.data[:n]
	r.data = r.data[n:]
	return b, nil
}

func (r *accountReader) uint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *accountReader) player() (Player, error) {
	var p Player

	nameLen, err := r.uint32()
	if err != nil {
		return p, err
	}
	if nameLen > MaxUsernameLen {
		return p, fmt.Errorf("%w: username length %d", ErrInvalidAccountData, nameLen)
	}
	name, err := r.next(int(nameLen))
	if err != nil {
		return p, err
	}
	p.Username = string(name)

	id, err := r.next(IdentitySize)
	if err != nil {
		return p, err
	}
	copy(p.Identity[:], id)

	score, err := r.next(8)
	if err != nil {
		return p, err
	}
	p.Score = binary.LittleEndian.Uint64(score)

	paid, err := r.next(1)
	if err != nil {
		return p, err
	}
	switch paid[0] {
	case 0:
	case 1:
		p.HasPaid = true
	default:
		return p, fmt.Errorf("%w: paid flag %d", ErrInvalidAccountData, paid[0])
	}
	return p, nil
}
