package leaderboarddomain

import (
	"fmt"
	"sort"
)

const (
	// Capacity is the fixed number of leaderboard slots.
	Capacity = 5

	// MaxUsernameLen is the maximum username length in bytes.
	MaxUsernameLen = 32
)

// Player is a single leaderboard entry.
type Player struct {
	Username string   `json:"username"`
	Identity Identity `json:"identity"`
	Score    uint64   `json:"score"`
	HasPaid  bool     `json:"has_paid"`
}

// Standing is a player together with its derived rank.
type Standing struct {
	Rank int `json:"rank"`
	Player
}

// Leaderboard holds at most Capacity players in insertion order.
// Order carries no ranking meaning; see Standings.
type Leaderboard struct {
	players []Player
}

// New returns an empty leaderboard.
func New() *Leaderboard {
	return &Leaderboard{players: make([]Player, 0, Capacity)}
}

// Restore rebuilds a leaderboard from previously stored players.
func Restore(players []Player) (*Leaderboard, error) {
	if len(players) > Capacity {
		return nil, fmt.Errorf("leaderboard holds %d players, capacity is %d", len(players), Capacity)
	}
	for _, p := range players {
		if err := ValidateUsername(p.Username); err != nil {
			return nil, err
		}
	}
	l := New()
	l.players = append(l.players, players...)
	return l, nil
}

// ValidateUsername checks the username length bound.
func ValidateUsername(username string) error {
	if len(username) > MaxUsernameLen {
		return fmt.Errorf("%w: %d bytes, max %d", ErrUsernameTooLong, len(username), MaxUsernameLen)
	}
	return nil
}

// Initialize clears the board.
func (l *Leaderboard) Initialize() {
	l.players = make([]Player, 0, Capacity)
}

// AddPlayer appends p while there is room. At capacity it overwrites the slot
// holding the lowest score; on ties the lowest index is replaced, even when every
// player is tied. It returns the slot written and the overwritten player, if any.
func (l *Leaderboard) AddPlayer(p Player) (slot int, evicted *Player) {
	if len(l.players) < Capacity {
		l.players = append(l.players, p)
		return len(l.players) - 1, nil
	}

	slot = l.minScoreSlot()
	old := l.players[slot]
	l.players[slot] = p
	return slot, &old
}

func (l *Leaderboard) minScoreSlot() int {
	slot := 0
	for i := 1; i < len(l.players); i++ {
		if l.players[i].Score < l.players[slot].Score {
			slot = i
		}
	}
	return slot
}

// UpdateScore consumes the player's paid entry and records score.
// On error the board is left untouched.
func (l *Leaderboard) UpdateScore(id Identity, score uint64) error {
	i := l.indexOf(id)
	if i < 0 {
		return ErrPlayerNotFound
	}
	if !l.players[i].HasPaid {
		return ErrPlayerNotPaid
	}

	l.players[i].Score = score
	l.players[i].HasPaid = false
	return nil
}

// Find returns the first player with the given identity.
func (l *Leaderboard) Find(id Identity) (Player, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return Player{}, false
	}
	return l.players[i], true
}

func (l *Leaderboard) indexOf(id Identity) int {
	for i := range l.players {
		if l.players[i].Identity == id {
			return i
		}
	}
	return -1
}

// Len returns the number of occupied slots.
func (l *Leaderboard) Len() int {
	return len(l.players)
}

// Players returns a copy of the entries in slot order.
func (l *Leaderboard) Players() []Player {
	out := make([]Player, len(l.players))
	copy(out, l.players)
	return out
}

// Standings ranks players by score, highest first. Equal scores keep slot order.
func (l *Leaderboard) Standings() []Standing {
	ranked := l.Players()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	standings := make([]Standing, len(ranked))
	for i, p := range ranked {
		standings[i] = Standing{Rank: i + 1, Player: p}
	}
	return standings
}
