package engine

import "sync"

// EligibilityTracker remembers which participants have already won a
// priority-tier lottery claim within the current session. A recorded
// participant is ineligible for priority submissions in any window opened
// afterwards; standard-tier claims are never restricted.
type EligibilityTracker struct {
	mu   sync.RWMutex
	wins map[string]string // participant -> window ID of first priority win
}

func NewEligibilityTracker() *EligibilityTracker {
	return &EligibilityTracker{wins: make(map[string]string)}
}

// RecordPriorityWin marks the participant as a priority winner. Idempotent:
// the first recorded window is kept.
func (t *EligibilityTracker) RecordPriorityWin(participant, windowID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.wins[participant]; !ok {
		t.wins[participant] = windowID
	}
}

// IsPriorityEligible reports whether the participant may still submit a
// priority-tier claim.
func (t *EligibilityTracker) IsPriorityEligible(participant string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, won := t.wins[participant]
	return !won
}

// Wins returns a copy of the recorded priority wins.
func (t *EligibilityTracker) Wins() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	wins := make(map[string]string, len(t.wins))
	for p, w := range t.wins {
		wins[p] = w
	}
	return wins
}

// Clear wipes all records. Called only at session teardown.
func (t *EligibilityTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wins = make(map[string]string)
}
