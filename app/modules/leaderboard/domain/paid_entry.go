package leaderboarddomain

import "github.com/google/uuid"

// PaidEntry is proof that an entry fee was collected from a payer. A player
// built from it may submit exactly one score.
//
// Fee collectors call IssuePaidEntry after the transfer is recorded; the zero
// value is not a valid entry.
type PaidEntry struct {
	payer   Identity
	receipt uuid.UUID
	amount  uint64
}

// IssuePaidEntry mints an entry for a recorded fee receipt.
func IssuePaidEntry(payer Identity, receipt uuid.UUID, amount uint64) PaidEntry {
	return PaidEntry{payer: payer, receipt: receipt, amount: amount}
}

func (e PaidEntry) Payer() Identity    { return e.payer }
func (e PaidEntry) Receipt() uuid.UUID { return e.receipt }
func (e PaidEntry) Amount() uint64     { return e.amount }
func (e PaidEntry) Valid() bool        { return e.receipt != uuid.Nil && !e.payer.IsZero() }

// NewPaidPlayer builds a fresh, paid, zero-score player for the entry's payer.
func NewPaidPlayer(entry PaidEntry, username string) (Player, error) {
	if !entry.Valid() {
		return Player{}, ErrNoPaidEntry
	}
	if err := ValidateUsername(username); err != nil {
		return Player{}, err
	}
	return Player{
		Username: username,
		Identity: entry.payer,
		Score:    0,
		HasPaid:  true,
	}, nil
}
