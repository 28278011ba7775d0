// Package api defines the types exchanged between the auction engine and
// its presentation layer, plus the CBOR archive handed to the caller when
// a session closes.
package api

import (
	"time"

	"github.com/raidloot/auctionhall/core"
	"github.com/raidloot/auctionhall/engine"
)

// OpenSessionResponse is returned when a session is opened for a group.
type OpenSessionResponse struct {
	SessionID string `json:"session_id"`
	Group     string `json:"group"`
}

// StartWindowRequest opens an auction window inside the group's session.
type StartWindowRequest struct {
	Item            string `json:"item"`
	Eligibility     string `json:"eligibility,omitempty"`
	Mode            string `json:"mode"`
	DurationSeconds int64  `json:"duration_seconds"`
}

// StartWindowResponse describes a freshly opened window.
type StartWindowResponse struct {
	WindowID string    `json:"window_id"`
	Item     string    `json:"item"`
	Mode     core.Mode `json:"mode"`
	ClosesAt time.Time `json:"closes_at"`
}

// ClaimRequest registers a claim in an open window. Tier is set for
// lottery windows; Amount carries the raw bid text for sealed-bid windows
// (the engine parses and validates it, never the transport).
type ClaimRequest struct {
	Participant string `json:"participant"`
	Tier        string `json:"tier,omitempty"`
	Amount      string `json:"amount,omitempty"`
}

// SetMinimumBidRequest changes the session's sealed-bid floor between windows.
type SetMinimumBidRequest struct {
	Amount int64 `json:"amount"`
}

// WindowStatusResponse is a read-only view of a window.
type WindowStatusResponse struct {
	WindowID         string    `json:"window_id"`
	Item             string    `json:"item"`
	Eligibility      string    `json:"eligibility,omitempty"`
	Mode             core.Mode `json:"mode"`
	Closed           bool      `json:"closed"`
	Entries          int       `json:"entries"`
	RemainingSeconds int64     `json:"remaining_seconds"`
}

// OutcomeResponse carries one recorded outcome.
type OutcomeResponse struct {
	WindowID string        `json:"window_id"`
	Item     string        `json:"item"`
	Outcome  *core.Outcome `json:"outcome"`
	Digest   string        `json:"digest"`
}

// CloseSessionResponse carries the session summary plus the final archive,
// CBOR encoded and base64 wrapped for JSON transport.
type CloseSessionResponse struct {
	Summary       *engine.SessionSummary `json:"summary"`
	ArchiveBase64 string                 `json:"archive_base64,omitempty"`
}

// ErrorResponse reports a failed operation to the presentation layer.
type ErrorResponse struct {
	Error string `json:"error"`
}
