package api

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/raidloot/auctionhall/core"
	"github.com/raidloot/auctionhall/engine"
)

// SessionArchive is the durable artifact handed to the caller when a
// session closes. The engine keeps nothing after teardown; storing the
// archive is entirely the caller's responsibility.
type SessionArchive struct {
	SessionID string            `cbor:"session_id"`
	Group     string            `cbor:"group"`
	ClosedAt  time.Time         `cbor:"closed_at"`
	Items     []ArchivedOutcome `cbor:"items"`
}

// ArchivedOutcome is one ledger entry in archive form.
type ArchivedOutcome struct {
	WindowID string       `cbor:"window_id"`
	Item     string       `cbor:"item"`
	Outcome  core.Outcome `cbor:"outcome"`
	Digest   string       `cbor:"digest"`
}

// BuildSessionArchive converts a closed session's ledger into an archive.
func BuildSessionArchive(sessionID, group string, ledger []engine.RecordedOutcome) *SessionArchive {
	archive := &SessionArchive{
		SessionID: sessionID,
		Group:     group,
		ClosedAt:  time.Now().UTC(),
		Items:     make([]ArchivedOutcome, 0, len(ledger)),
	}
	for _, rec := range ledger {
		archive.Items = append(archive.Items, ArchivedOutcome{
			WindowID: rec.WindowID,
			Item:     rec.Item,
			Outcome:  *rec.Outcome,
			Digest:   rec.Digest,
		})
	}
	return archive
}

// EncodeSessionArchive serializes an archive to CBOR.
func EncodeSessionArchive(archive *SessionArchive) ([]byte, error) {
	data, err := cbor.Marshal(archive)
	if err != nil {
		return nil, fmt.Errorf("encoding session archive: %w", err)
	}
	return data, nil
}

// DecodeSessionArchive deserializes a CBOR archive.
func DecodeSessionArchive(data []byte) (*SessionArchive, error) {
	var archive SessionArchive
	if err := cbor.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("decoding session archive: %w", err)
	}
	return &archive, nil
}
