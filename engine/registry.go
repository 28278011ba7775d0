package engine

import (
	"sync"

	"github.com/raidloot/auctionhall/core"
)

// BidRegistry is a concurrency-safe mapping of participant to claim for
// one open auction window. At most one claim per participant; replacing a
// claim requires an explicit withdraw followed by a resubmit. Insertion
// order is retained because it drives the sealed-bid tie-break.
type BidRegistry struct {
	mu     sync.RWMutex
	claims map[string]core.Claim
	order  []string
}

func NewBidRegistry() *BidRegistry {
	return &BidRegistry{claims: make(map[string]core.Claim)}
}

// Submit inserts a claim for the participant. Fails with ErrAlreadyClaimed
// if the participant already has an active claim; no other side effects.
func (r *BidRegistry) Submit(participant string, claim core.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.claims[participant]; ok {
		return ErrAlreadyClaimed
	}
	r.claims[participant] = claim
	r.order = append(r.order, participant)
	return nil
}

// Withdraw removes and returns the participant's claim.
func (r *BidRegistry) Withdraw(participant string) (core.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	claim, ok := r.claims[participant]
	if !ok {
		return core.Claim{}, ErrNotClaimed
	}
	delete(r.claims, participant)
	for i, p := range r.order {
		if p == participant {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return claim, nil
}

// Snapshot returns a consistent copy of the registry in insertion order.
// Safe to call concurrently with Submit and Withdraw.
func (r *BidRegistry) Snapshot() core.RegistrySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(core.RegistrySnapshot, 0, len(r.order))
	for _, p := range r.order {
		snapshot = append(snapshot, core.ClaimRecord{Participant: p, Claim: r.claims[p]})
	}
	return snapshot
}

// Len returns the number of active claims.
func (r *BidRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.claims)
}
