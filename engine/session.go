package engine

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raidloot/auctionhall/core"
)

// Defaults applied by NewSessionManager when the config leaves them zero.
const (
	DefaultMinimumBid        int64 = 1
	DefaultMaxWindowDuration       = 30 * time.Minute
)

// SessionConfig carries session-wide settings.
type SessionConfig struct {
	// MinimumBid is the starting floor for sealed bids, mutable between
	// windows via SetMinimumBid, never mid-window.
	MinimumBid int64

	// MaxWindowDuration bounds the countdown a caller may request.
	MaxWindowDuration time.Duration

	// RandSource overrides the lottery shuffle source. Nil uses the
	// crypto/rand default.
	RandSource core.RandSource
}

// RecordedOutcome is one ledger entry: the resolved outcome of a closed
// window plus its audit digest.
type RecordedOutcome struct {
	WindowID string        `json:"window_id"`
	Item     string        `json:"item"`
	Outcome  *core.Outcome `json:"outcome"`
	Digest   string        `json:"digest"`
}

// ItemResult is one line of a session summary.
type ItemResult struct {
	Item    string   `json:"item"`
	Winners []string `json:"winners"`
}

// SessionSummary aggregates a session's ledger at close.
type SessionSummary struct {
	SessionID          string       `json:"session_id"`
	PerItem            []ItemResult `json:"per_item"`
	TotalItems         int          `json:"total_items"`
	TotalUniqueWinners int          `json:"total_unique_winners"`
}

// AuctionSession aggregates a sequence of auction windows sharing one
// EligibilityTracker and accumulates a results ledger. Windows may run
// concurrently; only the tracker and the ledger are shared state.
type AuctionSession struct {
	ID    string
	Group string

	mu          sync.Mutex
	cfg         SessionConfig
	tracker     *EligibilityTracker
	windows     map[string]*AuctionWindow
	openWindows int
	ledger      []RecordedOutcome
	recorded    map[string]bool
	closed      bool
}

func newSession(group string, cfg SessionConfig) *AuctionSession {
	return &AuctionSession{
		ID:       uuid.NewString(),
		Group:    group,
		cfg:      cfg,
		tracker:  NewEligibilityTracker(),
		windows:  make(map[string]*AuctionWindow),
		recorded: make(map[string]bool),
	}
}

// Tracker exposes the session's eligibility tracker.
func (s *AuctionSession) Tracker() *EligibilityTracker {
	return s.tracker
}

// MinimumBid returns the current sealed-bid floor.
func (s *AuctionSession) MinimumBid() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.MinimumBid
}

// SetMinimumBid changes the sealed-bid floor for windows opened afterwards.
// Rejected while any window is open so a floor never moves mid-window.
func (s *AuctionSession) SetMinimumBid(amount int64) error {
	if amount <= 0 {
		return core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNoActiveSession
	}
	if s.openWindows > 0 {
		return ErrMinimumBidLocked
	}
	s.cfg.MinimumBid = amount
	return nil
}

// StartWindow opens a new auction window wired to this session: its
// priority gate is the session tracker and its countdown finalizes the
// window into the ledger when it fires.
func (s *AuctionSession) StartWindow(item, eligibility string, mode core.Mode, duration time.Duration) (*AuctionWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrNoActiveSession
	}
	if duration <= 0 || duration > s.cfg.MaxWindowDuration {
		return nil, ErrInvalidDuration
	}

	w := OpenWindow(WindowConfig{
		Item:             item,
		Eligibility:      eligibility,
		Mode:             mode,
		Duration:         duration,
		MinimumBid:       s.cfg.MinimumBid,
		PriorityEligible: s.tracker.IsPriorityEligible,
		OnClose:          s.finalize,
	})
	s.windows[w.ID] = w
	s.openWindows++
	return w, nil
}

// finalize resolves a freshly closed window and records the outcome. It is
// the single close path for session windows, whether the countdown fired
// or the caller closed early.
func (s *AuctionSession) finalize(w *AuctionWindow, snapshot core.RegistrySnapshot) {
	var outcome *core.Outcome
	switch w.Mode {
	case core.ModeSealedBid:
		outcome = core.ResolveSealedBid(snapshot, w.minimumBid)
	default:
		outcome = core.ResolveLottery(snapshot, s.cfg.RandSource)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.openWindows--
	s.recordLocked(w.ID, w.Item, outcome)
}

// RecordOutcome appends an outcome to the ledger. Priority lottery winners
// are forwarded to the eligibility tracker. Recording the same window
// twice is a no-op.
func (s *AuctionSession) RecordOutcome(windowID, item string, outcome *core.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordLocked(windowID, item, outcome)
}

func (s *AuctionSession) recordLocked(windowID, item string, outcome *core.Outcome) {
	if s.recorded[windowID] {
		return
	}
	s.recorded[windowID] = true
	s.ledger = append(s.ledger, RecordedOutcome{
		WindowID: windowID,
		Item:     item,
		Outcome:  outcome,
		Digest:   core.ComputeOutcomeDigest(windowID, item, outcome),
	})
	if outcome.Mode == core.ModeLottery {
		for _, e := range outcome.Lottery {
			if e.Tier == core.TierPriority {
				s.tracker.RecordPriorityWin(e.Participant, windowID)
			}
		}
	}
}

// Window looks up a window of this session by ID.
func (s *AuctionSession) Window(windowID string) (*AuctionWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[windowID]
	if !ok {
		return nil, ErrWindowNotFound
	}
	return w, nil
}

// OutcomeByItem looks up a recorded outcome by item label, case-insensitive
// exact match. With duplicate labels the most recently recorded wins.
func (s *AuctionSession) OutcomeByItem(item string) (*RecordedOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.ledger) - 1; i >= 0; i-- {
		if strings.EqualFold(s.ledger[i].Item, item) {
			rec := s.ledger[i]
			return &rec, nil
		}
	}
	return nil, ErrItemNotFound
}

// OutcomeByWindow looks up a recorded outcome by window ID.
func (s *AuctionSession) OutcomeByWindow(windowID string) (*RecordedOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ledger {
		if s.ledger[i].WindowID == windowID {
			rec := s.ledger[i]
			return &rec, nil
		}
	}
	return nil, ErrWindowNotFound
}

// Ledger returns a copy of the recorded outcomes in recording order.
func (s *AuctionSession) Ledger() []RecordedOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger := make([]RecordedOutcome, len(s.ledger))
	copy(ledger, s.ledger)
	return ledger
}

// closeAndSummarize tears the session down: still-open windows are closed
// early (recording their outcomes), the summary is computed from the
// ledger and the tracker is cleared. A session with zero recorded outcomes
// closes fine and yields an empty summary.
func (s *AuctionSession) closeAndSummarize() (*SessionSummary, []RecordedOutcome) {
	s.mu.Lock()
	if s.closed {
		summary := s.summaryLocked()
		ledger := s.ledger
		s.mu.Unlock()
		return summary, ledger
	}
	s.closed = true
	windows := make([]*AuctionWindow, 0, len(s.windows))
	for _, w := range s.windows {
		windows = append(windows, w)
	}
	s.mu.Unlock()

	// Close outside the session lock: finalize re-enters it.
	for _, w := range windows {
		w.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	summary := s.summaryLocked()
	ledger := make([]RecordedOutcome, len(s.ledger))
	copy(ledger, s.ledger)
	s.tracker.Clear()
	return summary, ledger
}

func (s *AuctionSession) summaryLocked() *SessionSummary {
	summary := &SessionSummary{
		SessionID: s.ID,
		PerItem:   make([]ItemResult, 0, len(s.ledger)),
	}
	unique := make(map[string]bool)
	for _, rec := range s.ledger {
		winners := rec.Outcome.Participants()
		summary.PerItem = append(summary.PerItem, ItemResult{Item: rec.Item, Winners: winners})
		for _, p := range winners {
			unique[p] = true
		}
	}
	summary.TotalItems = len(summary.PerItem)
	summary.TotalUniqueWinners = len(unique)
	return summary
}

// SessionManager enforces the one-active-session-per-group rule and owns
// session construction and teardown.
type SessionManager struct {
	mu       sync.Mutex
	cfg      SessionConfig
	sessions map[string]*AuctionSession
}

func NewSessionManager(cfg SessionConfig) *SessionManager {
	if cfg.MinimumBid <= 0 {
		cfg.MinimumBid = DefaultMinimumBid
	}
	if cfg.MaxWindowDuration <= 0 {
		cfg.MaxWindowDuration = DefaultMaxWindowDuration
	}
	return &SessionManager{
		cfg:      cfg,
		sessions: make(map[string]*AuctionSession),
	}
}

// Open starts a session for the group. Fails with ErrSessionAlreadyActive
// while one is open.
func (m *SessionManager) Open(group string) (*AuctionSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[group]; ok {
		return nil, ErrSessionAlreadyActive
	}
	session := newSession(group, m.cfg)
	m.sessions[group] = session
	return session, nil
}

// Get returns the group's active session.
func (m *SessionManager) Get(group string) (*AuctionSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[group]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return session, nil
}

// Close tears down the group's session and returns its summary plus the
// final ledger. The session slot is released before teardown completes so
// a new session can open immediately after.
func (m *SessionManager) Close(group string) (*SessionSummary, []RecordedOutcome, error) {
	m.mu.Lock()
	session, ok := m.sessions[group]
	if !ok {
		m.mu.Unlock()
		return nil, nil, ErrNoActiveSession
	}
	delete(m.sessions, group)
	m.mu.Unlock()

	summary, ledger := session.closeAndSummarize()
	return summary, ledger, nil
}
