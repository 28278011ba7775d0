package core

import "fmt"

// Mode selects how a closed auction window is resolved.
type Mode string

const (
	// ModeLottery resolves by randomized ordering within eligibility tiers.
	ModeLottery Mode = "lottery"
	// ModeSealedBid resolves by ranked numeric bids with a second-price payment.
	ModeSealedBid Mode = "sealed_bid"
)

// ParseMode converts caller input into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLottery, ModeSealedBid:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown auction mode %q", s)
}

// Tier classifies a lottery claim. Priority entries resolve ahead of
// standard entries and, once recorded as won, block further priority
// claims for that participant within the session.
type Tier string

const (
	TierPriority Tier = "priority"
	TierStandard Tier = "standard"
)

// ParseTier converts caller input into a Tier.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierPriority, TierStandard:
		return Tier(s), nil
	}
	return "", fmt.Errorf("unknown claim tier %q", s)
}

// Claim represents a single participant's entry in an open auction window.
// Exactly one of the mode-specific fields is meaningful: Tier for lottery
// claims, Amount for sealed bids.
type Claim struct {
	Mode   Mode  `json:"mode"`
	Tier   Tier  `json:"tier,omitempty"`
	Amount int64 `json:"amount,omitempty"`
}

// ClaimRecord pairs a participant identifier with their claim.
// Participants are identified by an opaque stable ID, never a display name.
type ClaimRecord struct {
	Participant string `json:"participant"`
	Claim       Claim  `json:"claim"`
}

// RegistrySnapshot is an immutable view of a bid registry in insertion
// order. Insertion order feeds the sealed-bid stable tie-break.
type RegistrySnapshot []ClaimRecord

// LotteryEntry is one position in a resolved lottery ordering.
type LotteryEntry struct {
	Participant string `json:"participant"`
	Tier        Tier   `json:"tier"`
}

// BidRank is one position in a resolved sealed-bid ranking.
type BidRank struct {
	Participant string `json:"participant"`
	Amount      int64  `json:"amount"`
}

// Outcome contains the resolved result of a closed auction window.
type Outcome struct {
	Mode Mode `json:"mode"`

	// Lottery holds the resolved ordering for lottery windows: all
	// priority entries precede all standard entries, each partition
	// independently shuffled.
	Lottery []LotteryEntry `json:"lottery,omitempty"`

	// Ranking holds sealed bids sorted by amount descending, ties kept
	// in submission order.
	Ranking []BidRank `json:"ranking,omitempty"`

	// Payment is the second-price amount the winner pays: second-highest
	// bid + 1 with two or more bids, minimum bid + 1 with exactly one,
	// nil with none. Always nil for lottery outcomes.
	Payment *int64 `json:"payment,omitempty"`
}

// Participants returns the resolved ordering as a flat participant list.
func (o *Outcome) Participants() []string {
	var out []string
	switch o.Mode {
	case ModeLottery:
		out = make([]string, 0, len(o.Lottery))
		for _, e := range o.Lottery {
			out = append(out, e.Participant)
		}
	case ModeSealedBid:
		out = make([]string, 0, len(o.Ranking))
		for _, r := range o.Ranking {
			out = append(out, r.Participant)
		}
	}
	return out
}
