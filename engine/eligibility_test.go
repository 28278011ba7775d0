package engine

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestEligibilityTracker_RecordAndQuery(t *testing.T) {
	tracker := NewEligibilityTracker()

	check.True(t, tracker.IsPriorityEligible("alice"))

	tracker.RecordPriorityWin("alice", "w1")
	check.False(t, tracker.IsPriorityEligible("alice"))
	check.True(t, tracker.IsPriorityEligible("bob"))
}

func TestEligibilityTracker_IdempotentUpsert(t *testing.T) {
	tracker := NewEligibilityTracker()

	tracker.RecordPriorityWin("alice", "w1")
	tracker.RecordPriorityWin("alice", "w2")

	// The first recorded window wins.
	check.Equal(t, map[string]string{"alice": "w1"}, tracker.Wins())
}

func TestEligibilityTracker_Clear(t *testing.T) {
	tracker := NewEligibilityTracker()
	tracker.RecordPriorityWin("alice", "w1")
	tracker.RecordPriorityWin("bob", "w2")

	tracker.Clear()

	check.True(t, tracker.IsPriorityEligible("alice"))
	check.True(t, tracker.IsPriorityEligible("bob"))
	check.Equal(t, 0, len(tracker.Wins()))
}
