package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
)

// RandSource provides random number generation for shuffling.
// This interface enables dependency injection for deterministic testing.
type RandSource interface {
	// Intn returns a random integer in [0, n). Panics if n <= 0.
	Intn(n int) int
}

// cryptoRandSource wraps crypto/rand for production use
type cryptoRandSource struct{}

// Intn returns a cryptographically secure random integer in [0, n).
// Panics if n <= 0 (programmer error).
func (cryptoRandSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("cryptoRandSource.Intn: n must be positive, got %d", n))
	}
	// rand.Int does not error when using rand.Reader
	// https://pkg.go.dev/crypto/rand#Int
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(nBig.Int64())
}

// defaultRandSource provides a cryptographically secure random source for production
var defaultRandSource RandSource = cryptoRandSource{}

// ResolveLottery turns a closed registry snapshot into a lottery outcome:
// priority entries first, then standard entries, each partition
// independently shuffled with a uniformly random permutation.
// Pass a nil randSource to use the crypto/rand default.
func ResolveLottery(snapshot RegistrySnapshot, randSource RandSource) *Outcome {
	if randSource == nil {
		randSource = defaultRandSource
	}

	var priority, standard []LotteryEntry
	for _, rec := range snapshot {
		if rec.Claim.Mode != ModeLottery {
			continue
		}
		entry := LotteryEntry{Participant: rec.Participant, Tier: rec.Claim.Tier}
		if rec.Claim.Tier == TierPriority {
			priority = append(priority, entry)
		} else {
			standard = append(standard, entry)
		}
	}

	shuffleEntries(priority, randSource)
	shuffleEntries(standard, randSource)

	entries := make([]LotteryEntry, 0, len(priority)+len(standard))
	entries = append(entries, priority...)
	entries = append(entries, standard...)

	return &Outcome{Mode: ModeLottery, Lottery: entries}
}

// shuffleEntries permutes entries in place using Fisher-Yates.
func shuffleEntries(entries []LotteryEntry, randSource RandSource) {
	for k := len(entries) - 1; k > 0; k-- {
		// Pick a random index from 0 to k (inclusive)
		randIdx := randSource.Intn(k + 1)
		entries[k], entries[randIdx] = entries[randIdx], entries[k]
	}
}

// ResolveSealedBid turns a closed registry snapshot into a ranked bid
// outcome. Bids are sorted by amount descending with a stable tie-break
// (first submitted keeps the higher position). The payment amount follows
// the second-price rule: second-highest bid + 1 with two or more bids,
// minimumBid + 1 with exactly one, absent with none.
func ResolveSealedBid(snapshot RegistrySnapshot, minimumBid int64) *Outcome {
	ranking := make([]BidRank, 0, len(snapshot))
	for _, rec := range snapshot {
		if rec.Claim.Mode != ModeSealedBid {
			continue
		}
		ranking = append(ranking, BidRank{Participant: rec.Participant, Amount: rec.Claim.Amount})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Amount > ranking[j].Amount
	})

	outcome := &Outcome{Mode: ModeSealedBid, Ranking: ranking}

	switch {
	case len(ranking) >= 2:
		payment := ranking[1].Amount + 1
		outcome.Payment = &payment
	case len(ranking) == 1:
		payment := minimumBid + 1
		outcome.Payment = &payment
	}

	return outcome
}
