// Package leaderboardevents defines leaderboard topics and their JSON payloads.
package leaderboardevents

import (
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
)

// PlayerV1 is a leaderboard slot as seen on the wire.
type PlayerV1 struct {
	Slot     int                        `json:"slot"`
	Username string                     `json:"username"`
	Identity leaderboarddomain.Identity `json:"identity"`
	Score    uint64                     `json:"score"`
	HasPaid  bool                       `json:"has_paid"`
}

// StandingV1 is a ranked player.
type StandingV1 struct {
	Rank     int                        `json:"rank"`
	Username string                     `json:"username"`
	Identity leaderboarddomain.Identity `json:"identity"`
	Score    uint64                     `json:"score"`
}

// FailureV1 is embedded in every failure payload. Code is set for rule
// violations (6000 PlayerNotFound, 6001 PlayerHasNotPaid). MessageID names the
// request message when the request itself could not be decoded.
type FailureV1 struct {
	Reason    string `json:"reason"`
	Code      uint32 `json:"code,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// -- initialize --

type LeaderboardInitializeRequestedPayloadV1 struct {
	Caller leaderboarddomain.Identity `json:"caller"`
}

type LeaderboardInitializedPayloadV1 struct {
	Owner         leaderboarddomain.Identity `json:"owner"`
	InitializedAt time.Time                  `json:"initialized_at"`
}

type LeaderboardInitializeFailedPayloadV1 struct {
	Caller leaderboarddomain.Identity `json:"caller"`
	FailureV1
}

// -- new game --

// LeaderboardGameRequestedPayloadV1 asks for a paid game. Redelivering the same
// RequestID never charges twice; when empty the message UUID is used.
type LeaderboardGameRequestedPayloadV1 struct {
	Player    leaderboarddomain.Identity `json:"player"`
	Username  string                     `json:"username"`
	RequestID string                     `json:"request_id,omitempty"`
}

// LeaderboardPlayerAddedPayloadV1 reports the slot written. Evicted is set when
// the board was full and another player was displaced. Replayed marks an
// answer to a request that had already been charged.
type LeaderboardPlayerAddedPayloadV1 struct {
	Player    PlayerV1  `json:"player"`
	Evicted   *PlayerV1 `json:"evicted,omitempty"`
	ReceiptID string    `json:"receipt_id"`
	EntryFee  uint64    `json:"entry_fee"`
	Replayed  bool      `json:"replayed,omitempty"`
}

type LeaderboardGameFailedPayloadV1 struct {
	Player   leaderboarddomain.Identity `json:"player"`
	Username string                     `json:"username"`
	FailureV1
}

// -- score --

type LeaderboardScoreSubmittedPayloadV1 struct {
	Player leaderboarddomain.Identity `json:"player"`
	Score  uint64                     `json:"score"`
}

type LeaderboardScoreUpdatedPayloadV1 struct {
	Player PlayerV1 `json:"player"`
}

type LeaderboardScoreFailedPayloadV1 struct {
	Player leaderboarddomain.Identity `json:"player"`
	Score  uint64                     `json:"score"`
	FailureV1
}

// -- retrieve --

type LeaderboardRetrieveRequestedPayloadV1 struct {
	RequestID string `json:"request_id,omitempty"`
}

type LeaderboardRetrievedPayloadV1 struct {
	RequestID string       `json:"request_id,omitempty"`
	Players   []PlayerV1   `json:"players"`
	Standings []StandingV1 `json:"standings"`
}

type LeaderboardRetrieveFailedPayloadV1 struct {
	RequestID string `json:"request_id,omitempty"`
	FailureV1
}

// NewPlayerV1 converts a domain player in the given slot.
func NewPlayerV1(slot int, p leaderboarddomain.Player) PlayerV1 {
	return PlayerV1{
		Slot:     slot,
		Username: p.Username,
		Identity: p.Identity,
		Score:    p.Score,
		HasPaid:  p.HasPaid,
	}
}

// NewStandingsV1 converts derived standings.
func NewStandingsV1(standings []leaderboarddomain.Standing) []StandingV1 {
	out := make([]StandingV1, len(standings))
	for i, s := range standings {
		out[i] = StandingV1{Rank: s.Rank, Username: s.Username, Identity: s.Identity, Score: s.Score}
	}
	return out
}

// NewFailureV1 builds a failure from err, carrying its rule code when present.
func NewFailureV1(err error) FailureV1 {
	f := FailureV1{Reason: err.Error()}
	if code, ok := leaderboarddomain.RuleCode(err); ok {
		f.Code = code
	}
	return f
}

// NewInvalidPayloadFailureV1 reports a request message that could not be decoded.
func NewInvalidPayloadFailureV1(messageID string, err error) FailureV1 {
	return FailureV1{Reason: "invalid payload: " + err.Error(), MessageID: messageID}
}
