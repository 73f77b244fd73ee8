package leaderboarddomain

import "errors"

// RuleError is a leaderboard rule violation reported back to the caller.
// Codes are stable and shared with existing game clients.
type RuleError struct {
	code uint32
	name string
	msg  string
}

func (e *RuleError) Error() string { return e.msg }

// Code returns the numeric error code.
func (e *RuleError) Code() uint32 { return e.code }

// Name returns the symbolic error name.
func (e *RuleError) Name() string { return e.name }

var (
	// ErrPlayerNotFound is returned when a score targets an identity that is not on the board.
	ErrPlayerNotFound = &RuleError{code: 6000, name: "PlayerNotFound", msg: "player not found"}

	// ErrPlayerNotPaid is returned when a player has no unconsumed paid entry.
	ErrPlayerNotPaid = &RuleError{code: 6001, name: "PlayerHasNotPaid", msg: "player has not paid"}
)

var (
	// ErrUsernameTooLong is returned for usernames longer than MaxUsernameLen bytes.
	ErrUsernameTooLong = errors.New("username too long")

	// ErrNoPaidEntry is returned when a player is built from an entry that was never issued.
	ErrNoPaidEntry = errors.New("no paid entry")
)

// RuleCode extracts the code of a RuleError anywhere in err's chain.
func RuleCode(err error) (uint32, bool) {
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr.Code(), true
	}
	return 0, false
}
