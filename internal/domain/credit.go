package domain

import "math"

// DefaultSecondsPerCredit converts one credit unit into session seconds.
const DefaultSecondsPerCredit uint64 = 60

// CreditMessage is consumed exactly once by the countdown engine and never persisted.
type CreditMessage struct {
	Amount uint64
	Origin string
}

// Seconds returns the session time bought by the message, saturating instead of wrapping.
func (m CreditMessage) Seconds(secondsPerCredit uint64) uint64 {
	if m.Amount == 0 || secondsPerCredit == 0 {
		return 0
	}
	if m.Amount > math.MaxUint64/secondsPerCredit {
		return math.MaxUint64
	}
	return m.Amount * secondsPerCredit
}

type SessionState struct {
	RemainingSeconds uint64 `json:"remaining_seconds"`
	Running          bool   `json:"running"`
}
