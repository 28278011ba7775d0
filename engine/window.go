package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raidloot/auctionhall/core"
)

// WindowConfig carries the parameters for opening an auction window.
type WindowConfig struct {
	Item        string
	Eligibility string
	Mode        core.Mode
	Duration    time.Duration

	// MinimumBid is the floor for sealed bids, fixed for the window's lifetime.
	MinimumBid int64

	// PriorityEligible gates priority-tier lottery claims. Nil means
	// everyone is eligible.
	PriorityEligible func(participant string) bool

	// OnClose is invoked exactly once with the frozen snapshot, whether
	// the window closes by countdown expiry or explicitly.
	OnClose func(w *AuctionWindow, snapshot core.RegistrySnapshot)
}

// AuctionWindow is a single timed auction: it owns a BidRegistry, enforces
// the Open -> Closed state machine and freezes an immutable snapshot on
// close. Closed is terminal.
//
// All claim mutations and the close transition share one mutex, so a claim
// racing a close observes either the open window (normal rules) or
// ErrWindowClosed, never a partially applied mutation.
type AuctionWindow struct {
	ID          string
	Item        string
	Eligibility string
	Mode        core.Mode
	Duration    time.Duration
	OpenedAt    time.Time

	mu               sync.Mutex
	closed           bool
	frozen           core.RegistrySnapshot
	registry         *BidRegistry
	minimumBid       int64
	priorityEligible func(string) bool
	onClose          func(*AuctionWindow, core.RegistrySnapshot)

	timer *time.Timer
	done  chan struct{}
}

// OpenWindow constructs a window in the Open state and starts its
// countdown. The countdown posts a single expire signal handled under the
// same mutex as participant operations; it fires exactly once and is
// cancelled only by an explicit early close.
func OpenWindow(cfg WindowConfig) *AuctionWindow {
	w := &AuctionWindow{
		ID:               uuid.NewString(),
		Item:             cfg.Item,
		Eligibility:      cfg.Eligibility,
		Mode:             cfg.Mode,
		Duration:         cfg.Duration,
		OpenedAt:         time.Now(),
		registry:         NewBidRegistry(),
		minimumBid:       cfg.MinimumBid,
		priorityEligible: cfg.PriorityEligible,
		onClose:          cfg.OnClose,
		done:             make(chan struct{}),
	}
	// Assign under the mutex: Close runs under it too, so even a countdown
	// that fires immediately observes the assigned timer.
	w.mu.Lock()
	w.timer = time.AfterFunc(cfg.Duration, func() { w.Close() })
	w.mu.Unlock()
	return w
}

// RegisterLotteryClaim enters the participant into a lottery window at the
// requested tier. Priority requests from ineligible participants fail with
// ErrPriorityIneligible without touching the registry.
func (w *AuctionWindow) RegisterLotteryClaim(participant string, tier core.Tier) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWindowClosed
	}
	if w.Mode != core.ModeLottery {
		return ErrClaimModeMismatch
	}
	if tier == core.TierPriority && w.priorityEligible != nil && !w.priorityEligible(participant) {
		return ErrPriorityIneligible
	}
	return w.registry.Submit(participant, core.Claim{Mode: core.ModeLottery, Tier: tier})
}

// RegisterSealedBid parses rawAmount and enters the bid. Non-numeric or
// non-positive text fails with core.ErrInvalidAmount and is never coerced;
// amounts under the window's minimum fail with ErrBelowMinimumBid.
func (w *AuctionWindow) RegisterSealedBid(participant string, rawAmount string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWindowClosed
	}
	if w.Mode != core.ModeSealedBid {
		return ErrClaimModeMismatch
	}
	amount, err := core.ParseBidAmount(rawAmount)
	if err != nil {
		return err
	}
	if amount < w.minimumBid {
		return ErrBelowMinimumBid
	}
	return w.registry.Submit(participant, core.Claim{Mode: core.ModeSealedBid, Amount: amount})
}

// WithdrawClaim removes the participant's claim from an open window.
func (w *AuctionWindow) WithdrawClaim(participant string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWindowClosed
	}
	_, err := w.registry.Withdraw(participant)
	return err
}

// Close flips the window to Closed, freezes the registry and returns the
// immutable snapshot. Idempotent: a second close is a no-op returning the
// same snapshot.
func (w *AuctionWindow) Close() core.RegistrySnapshot {
	w.mu.Lock()
	if w.closed {
		frozen := w.frozen
		w.mu.Unlock()
		return frozen
	}
	w.closed = true
	w.frozen = w.registry.Snapshot()
	w.timer.Stop()
	close(w.done)
	frozen := w.frozen
	onClose := w.onClose
	w.mu.Unlock()

	if onClose != nil {
		onClose(w, frozen)
	}
	return frozen
}

// Closed reports whether the window has reached its terminal state.
func (w *AuctionWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Done returns a channel closed when the window closes, letting callers
// await the countdown without polling.
func (w *AuctionWindow) Done() <-chan struct{} {
	return w.done
}

// Remaining returns the time left before the countdown fires, or zero for
// a closed window.
func (w *AuctionWindow) Remaining() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0
	}
	remaining := time.Until(w.OpenedAt.Add(w.Duration))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Snapshot returns a consistent view of the current claims. For a closed
// window this is the frozen snapshot.
func (w *AuctionWindow) Snapshot() core.RegistrySnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return w.frozen
	}
	return w.registry.Snapshot()
}

// Entries returns the number of active claims.
func (w *AuctionWindow) Entries() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return len(w.frozen)
	}
	return w.registry.Len()
}
