package banflow

import (
	"fmt"
	"strings"
	"time"
)

// State of a ban request. A request is only held by the workflow while
// awaiting confirmation; every other state is terminal.
type State uint8

const (
	StateAwaitingConfirmation State = iota + 1
	StateConfirmed
	StateCancelled
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	case StateExpired:
		return "expired"
	default:
		return "idle"
	}
}

// Request is a pending ban awaiting the requester's second confirmation.
// Ephemeral: it lives in memory only and is destroyed on confirm, cancel or
// timeout.
type Request struct {
	ID          string
	GuildID     string
	RequesterID string
	TargetID    string
	CreatedAt   time.Time
	ExpiresAt   time.Time

	state State
	timer *time.Timer
}

// State returns the request's current state.
func (r *Request) State() State {
	return r.state
}

const (
	confirmPrefix = "banreq:confirm:"
	cancelPrefix  = "banreq:cancel:"
)

// EncodeConfirmID and EncodeCancelID build the custom ids for the two
// buttons on the confirmation control.
func EncodeConfirmID(requestID string) string { return confirmPrefix + requestID }
func EncodeCancelID(requestID string) string  { return cancelPrefix + requestID }

// DecodeControlID splits a ban-control custom id into the request id and
// whether it is the confirm button.
func DecodeControlID(customID string) (requestID string, confirm bool, err error) {
	switch {
	case strings.HasPrefix(customID, confirmPrefix):
		return strings.TrimPrefix(customID, confirmPrefix), true, nil
	case strings.HasPrefix(customID, cancelPrefix):
		return strings.TrimPrefix(customID, cancelPrefix), false, nil
	default:
		return "", false, fmt.Errorf("not a ban control: %q", customID)
	}
}

// IsControlID reports whether a custom id belongs to the ban workflow.
func IsControlID(customID string) bool {
	return strings.HasPrefix(customID, confirmPrefix) || strings.HasPrefix(customID, cancelPrefix)
}
