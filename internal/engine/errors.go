package engine

import (
	"errors"
	"fmt"
)

// Kind classifies why an action was rejected. Rejections are ordinary
// return values; the engine panics only on internal invariant breaks.
type Kind string

const (
	KindRoomFull                Kind = "ROOM_FULL"
	KindRoomNotFound            Kind = "ROOM_NOT_FOUND"
	KindNotYourTurn             Kind = "NOT_YOUR_TURN"
	KindOwnershipMismatch       Kind = "OWNERSHIP_MISMATCH"
	KindPatternMismatch         Kind = "PATTERN_MISMATCH"
	KindRankTooLow              Kind = "RANK_TOO_LOW"
	KindEffectPending           Kind = "EFFECT_PENDING"
	KindAlreadyPassed           Kind = "ALREADY_PASSED"
	KindInvalidGiftDistribution Kind = "INVALID_GIFT_DISTRIBUTION"
	KindInvalidDiscardSelection Kind = "INVALID_DISCARD_SELECTION"
	KindActionNotAllowed        Kind = "ACTION_NOT_ALLOWED"
)

// Error is a rejected action. A rejection never mutates room state.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func reject(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the rejection kind, or "" for nil and foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
