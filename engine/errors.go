package engine

import "errors"

// Every engine operation either succeeds or reports one of these without
// corrupting state; there are no retryable or fatal classes.

// State errors: the operation conflicts with the current lifecycle state.
var (
	ErrWindowClosed         = errors.New("auction window is closed")
	ErrAlreadyClaimed       = errors.New("participant already has a claim in this window")
	ErrNotClaimed           = errors.New("participant has no claim in this window")
	ErrClaimModeMismatch    = errors.New("claim kind does not match the window mode")
	ErrSessionAlreadyActive = errors.New("a session is already active for this group")
	ErrNoActiveSession      = errors.New("no active session for this group")
	ErrWindowNotFound       = errors.New("no such auction window")
	ErrItemNotFound         = errors.New("no recorded outcome for that item")
	ErrMinimumBidLocked     = errors.New("minimum bid cannot change while a window is open")
)

// Validation errors: malformed or out-of-bounds caller input.
// core.ErrInvalidAmount belongs to this class as well.
var (
	ErrBelowMinimumBid = errors.New("bid amount is below the session minimum")
	ErrInvalidDuration = errors.New("window duration is out of bounds")
)

// Eligibility errors: kept distinct from generic state errors so the
// caller can render a specific message.
var ErrPriorityIneligible = errors.New("participant already won a priority claim in this session")
