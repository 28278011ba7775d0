package core

import (
	"crypto/sha256"
	"fmt"
)

// ComputeOutcomeDigest computes a deterministic digest over a recorded
// outcome. The digest is stored alongside the ledger entry and in the
// session archive so a caller can detect a tampered or re-resolved result.
//
// Formula: SHA256(window_id + "|" + item + "|" + mode + "|" + entries),
// where entries is the resolved ordering as "participant:tier" or
// "participant:amount" pairs, followed by "payment:N" when present.
func ComputeOutcomeDigest(windowID, item string, outcome *Outcome) string {
	data := fmt.Sprintf("%s|%s|%s", windowID, item, outcome.Mode)
	for _, e := range outcome.Lottery {
		data += fmt.Sprintf("|%s:%s", e.Participant, e.Tier)
	}
	for _, r := range outcome.Ranking {
		data += fmt.Sprintf("|%s:%d", r.Participant, r.Amount)
	}
	if outcome.Payment != nil {
		data += fmt.Sprintf("|payment:%d", *outcome.Payment)
	}
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
