package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

// mockRandSource provides a deterministic random source for testing
type mockRandSource struct {
	sequence []int
	index    int
}

func (m *mockRandSource) Intn(n int) int {
	if m.index >= len(m.sequence) {
		return 0
	}
	val := m.sequence[m.index] % n
	m.index++
	return val
}

func lotterySnapshot(priority, standard []string) RegistrySnapshot {
	snapshot := make(RegistrySnapshot, 0, len(priority)+len(standard))
	for _, p := range priority {
		snapshot = append(snapshot, ClaimRecord{Participant: p, Claim: Claim{Mode: ModeLottery, Tier: TierPriority}})
	}
	for _, p := range standard {
		snapshot = append(snapshot, ClaimRecord{Participant: p, Claim: Claim{Mode: ModeLottery, Tier: TierStandard}})
	}
	return snapshot
}

func bidSnapshot(bids ...BidRank) RegistrySnapshot {
	snapshot := make(RegistrySnapshot, 0, len(bids))
	for _, b := range bids {
		snapshot = append(snapshot, ClaimRecord{Participant: b.Participant, Claim: Claim{Mode: ModeSealedBid, Amount: b.Amount}})
	}
	return snapshot
}

func TestResolveLottery_PriorityPrecedesStandard(t *testing.T) {
	snapshot := lotterySnapshot([]string{"p1", "p2"}, []string{"s1", "s2", "s3"})

	// Run with the production source: the partition invariant must hold
	// for any permutation.
	outcome := ResolveLottery(snapshot, nil)

	check.Equal(t, ModeLottery, outcome.Mode)
	check.Equal(t, 5, len(outcome.Lottery))

	priority := map[string]bool{"p1": true, "p2": true}
	for i := 0; i < 2; i++ {
		check.True(t, priority[outcome.Lottery[i].Participant])
		check.Equal(t, TierPriority, outcome.Lottery[i].Tier)
	}
	standard := map[string]bool{"s1": true, "s2": true, "s3": true}
	for i := 2; i < 5; i++ {
		check.True(t, standard[outcome.Lottery[i].Participant])
		check.Equal(t, TierStandard, outcome.Lottery[i].Tier)
	}
	check.Nil(t, outcome.Payment)
}

func TestResolveLottery_DeterministicShuffle(t *testing.T) {
	snapshot := lotterySnapshot([]string{"p1", "p2", "p3"}, []string{"s1", "s2"})

	// Fisher-Yates consumes Intn(3), Intn(2) for the priority partition
	// and Intn(2) for the standard partition.
	mock := &mockRandSource{sequence: []int{0, 0, 0}}
	outcome := ResolveLottery(snapshot, mock)

	check.Equal(t, "p2", outcome.Lottery[0].Participant)
	check.Equal(t, "p3", outcome.Lottery[1].Participant)
	check.Equal(t, "p1", outcome.Lottery[2].Participant)
	check.Equal(t, "s2", outcome.Lottery[3].Participant)
	check.Equal(t, "s1", outcome.Lottery[4].Participant)
}

func TestResolveLottery_IdentityPermutation(t *testing.T) {
	snapshot := lotterySnapshot([]string{"p1", "p2"}, []string{"s1", "s2"})

	// Swapping each position with itself leaves submission order intact.
	mock := &mockRandSource{sequence: []int{1, 1}}
	outcome := ResolveLottery(snapshot, mock)

	check.Equal(t, "p1", outcome.Lottery[0].Participant)
	check.Equal(t, "p2", outcome.Lottery[1].Participant)
	check.Equal(t, "s1", outcome.Lottery[2].Participant)
	check.Equal(t, "s2", outcome.Lottery[3].Participant)
}

func TestResolveLottery_OnlyPriority(t *testing.T) {
	outcome := ResolveLottery(lotterySnapshot([]string{"p1", "p2"}, nil), nil)

	check.Equal(t, 2, len(outcome.Lottery))
	for _, e := range outcome.Lottery {
		check.Equal(t, TierPriority, e.Tier)
	}
}

func TestResolveLottery_OnlyStandard(t *testing.T) {
	outcome := ResolveLottery(lotterySnapshot(nil, []string{"s1", "s2", "s3"}), nil)

	check.Equal(t, 3, len(outcome.Lottery))
	for _, e := range outcome.Lottery {
		check.Equal(t, TierStandard, e.Tier)
	}
}

func TestResolveLottery_Empty(t *testing.T) {
	outcome := ResolveLottery(RegistrySnapshot{}, nil)

	check.NotNil(t, outcome)
	check.Equal(t, 0, len(outcome.Lottery))
	check.Nil(t, outcome.Payment)
}

func TestResolveLottery_IgnoresSealedBidRecords(t *testing.T) {
	snapshot := lotterySnapshot([]string{"p1"}, nil)
	snapshot = append(snapshot, ClaimRecord{Participant: "b1", Claim: Claim{Mode: ModeSealedBid, Amount: 50}})

	outcome := ResolveLottery(snapshot, nil)

	check.Equal(t, 1, len(outcome.Lottery))
	check.Equal(t, "p1", outcome.Lottery[0].Participant)
}

func TestResolveSealedBid_SecondPricePayment(t *testing.T) {
	snapshot := bidSnapshot(
		BidRank{Participant: "A", Amount: 100},
		BidRank{Participant: "B", Amount: 80},
	)

	outcome := ResolveSealedBid(snapshot, 10)

	check.Equal(t, ModeSealedBid, outcome.Mode)
	check.Equal(t, 2, len(outcome.Ranking))
	check.Equal(t, BidRank{Participant: "A", Amount: 100}, outcome.Ranking[0])
	check.Equal(t, BidRank{Participant: "B", Amount: 80}, outcome.Ranking[1])
	check.NotNil(t, outcome.Payment)
	check.Equal(t, int64(81), *outcome.Payment)
}

func TestResolveSealedBid_SingleBid(t *testing.T) {
	outcome := ResolveSealedBid(bidSnapshot(BidRank{Participant: "A", Amount: 50}), 10)

	check.Equal(t, 1, len(outcome.Ranking))
	check.NotNil(t, outcome.Payment)
	check.Equal(t, int64(11), *outcome.Payment)
}

func TestResolveSealedBid_NoBids(t *testing.T) {
	outcome := ResolveSealedBid(RegistrySnapshot{}, 10)

	check.NotNil(t, outcome)
	check.Equal(t, 0, len(outcome.Ranking))
	check.Nil(t, outcome.Payment)
}

func TestResolveSealedBid_TiesKeepSubmissionOrder(t *testing.T) {
	snapshot := bidSnapshot(
		BidRank{Participant: "first", Amount: 70},
		BidRank{Participant: "second", Amount: 70},
		BidRank{Participant: "third", Amount: 70},
	)

	outcome := ResolveSealedBid(snapshot, 10)

	check.Equal(t, "first", outcome.Ranking[0].Participant)
	check.Equal(t, "second", outcome.Ranking[1].Participant)
	check.Equal(t, "third", outcome.Ranking[2].Participant)
	// Payment is unaffected by tie order.
	check.Equal(t, int64(71), *outcome.Payment)
}

func TestResolveSealedBid_DoesNotMutateSnapshot(t *testing.T) {
	snapshot := bidSnapshot(
		BidRank{Participant: "low", Amount: 10},
		BidRank{Participant: "high", Amount: 90},
	)

	outcome := ResolveSealedBid(snapshot, 1)

	check.Equal(t, "high", outcome.Ranking[0].Participant)
	// Original snapshot keeps submission order.
	check.Equal(t, "low", snapshot[0].Participant)
	check.Equal(t, "high", snapshot[1].Participant)
}
