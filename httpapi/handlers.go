// Package httpapi is the presentation layer: it translates HTTP requests
// into engine calls and engine errors into HTTP statuses. Identity,
// persistence and rendering stay with the caller; the engine only ever
// sees pre-validated participant IDs and raw claim input.
package httpapi

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"github.com/raidloot/auctionhall/api"
	"github.com/raidloot/auctionhall/core"
	"github.com/raidloot/auctionhall/engine"
)

// Handler holds the dependencies for the HTTP handlers.
type Handler struct {
	manager *engine.SessionManager
}

// NewHandler creates a Handler around a session manager.
func NewHandler(manager *engine.SessionManager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes registers all application routes.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/sessions/:group", h.OpenSession)
	router.POST("/sessions/:group/close", h.CloseSession)
	router.GET("/sessions/:group/archive", h.ExportArchive)
	router.POST("/sessions/:group/minimum-bid", h.SetMinimumBid)
	router.POST("/sessions/:group/windows", h.StartWindow)
	router.GET("/sessions/:group/windows/:id", h.WindowStatus)
	router.POST("/sessions/:group/windows/:id/close", h.CloseWindow)
	router.POST("/sessions/:group/windows/:id/claims", h.RegisterClaim)
	router.DELETE("/sessions/:group/windows/:id/claims/:participant", h.WithdrawClaim)
	router.GET("/sessions/:group/results/:item", h.OutcomeByItem)
}

// OpenSession opens a session for a group.
func (h *Handler) OpenSession(c *gin.Context) {
	group := c.Param("group")
	session, err := h.manager.Open(group)
	if err != nil {
		abortWithError(c, err)
		return
	}
	logger.Infof("Opened session %s for group %s", session.ID, group)
	c.JSON(http.StatusCreated, api.OpenSessionResponse{SessionID: session.ID, Group: group})
}

// CloseSession closes the group's session and returns the summary plus the
// CBOR archive (base64 wrapped for JSON transport).
func (h *Handler) CloseSession(c *gin.Context) {
	group := c.Param("group")
	session, err := h.manager.Get(group)
	if err != nil {
		abortWithError(c, err)
		return
	}

	summary, ledger, err := h.manager.Close(group)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := api.CloseSessionResponse{Summary: summary}
	archive := api.BuildSessionArchive(session.ID, group, ledger)
	data, err := api.EncodeSessionArchive(archive)
	if err != nil {
		logger.Errorf("Failed to encode archive for session %s: %v", session.ID, err)
	} else {
		resp.ArchiveBase64 = base64.StdEncoding.EncodeToString(data)
	}

	logger.Infof("Closed session %s for group %s: %d items, %d unique winners",
		session.ID, group, summary.TotalItems, summary.TotalUniqueWinners)
	c.JSON(http.StatusOK, resp)
}

// ExportArchive returns the CBOR archive of the ledger recorded so far.
func (h *Handler) ExportArchive(c *gin.Context) {
	session, err := h.manager.Get(c.Param("group"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	archive := api.BuildSessionArchive(session.ID, session.Group, session.Ledger())
	data, err := api.EncodeSessionArchive(archive)
	if err != nil {
		logger.Errorf("Failed to encode archive for session %s: %v", session.ID, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "archive encoding failed"})
		return
	}
	c.Data(http.StatusOK, "application/cbor", data)
}

// SetMinimumBid changes the session's sealed-bid floor between windows.
func (h *Handler) SetMinimumBid(c *gin.Context) {
	session, err := h.manager.Get(c.Param("group"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	var req api.SetMinimumBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "malformed request body"})
		return
	}
	if err := session.SetMinimumBid(req.Amount); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StartWindow opens an auction window inside the group's session.
func (h *Handler) StartWindow(c *gin.Context) {
	session, err := h.manager.Get(c.Param("group"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	var req api.StartWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "malformed request body"})
		return
	}
	if req.Item == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "item is required"})
		return
	}
	mode, err := core.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	duration := time.Duration(req.DurationSeconds) * time.Second
	w, err := session.StartWindow(req.Item, req.Eligibility, mode, duration)
	if err != nil {
		abortWithError(c, err)
		return
	}

	logger.Infof("Opened %s window %s for item %q (%s)", mode, w.ID, req.Item, duration)
	c.JSON(http.StatusCreated, api.StartWindowResponse{
		WindowID: w.ID,
		Item:     w.Item,
		Mode:     w.Mode,
		ClosesAt: w.OpenedAt.Add(w.Duration),
	})
}

// WindowStatus returns a read-only view of a window.
func (h *Handler) WindowStatus(c *gin.Context) {
	w, err := h.window(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.WindowStatusResponse{
		WindowID:         w.ID,
		Item:             w.Item,
		Eligibility:      w.Eligibility,
		Mode:             w.Mode,
		Closed:           w.Closed(),
		Entries:          w.Entries(),
		RemainingSeconds: int64(w.Remaining() / time.Second),
	})
}

// CloseWindow closes a window early and returns the recorded outcome.
func (h *Handler) CloseWindow(c *gin.Context) {
	session, err := h.manager.Get(c.Param("group"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	w, err := session.Window(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	w.Close()
	rec, err := session.OutcomeByWindow(w.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	logger.Infof("Closed window %s for item %q with %d entries", w.ID, w.Item, len(rec.Outcome.Participants()))
	c.JSON(http.StatusOK, outcomeResponse(rec))
}

// RegisterClaim registers a lottery entry or sealed bid in an open window.
func (h *Handler) RegisterClaim(c *gin.Context) {
	w, err := h.window(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var req api.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "malformed request body"})
		return
	}
	if req.Participant == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "participant is required"})
		return
	}

	switch w.Mode {
	case core.ModeLottery:
		tier := core.TierStandard
		if req.Tier != "" {
			tier, err = core.ParseTier(req.Tier)
			if err != nil {
				c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
				return
			}
		}
		err = w.RegisterLotteryClaim(req.Participant, tier)
	default:
		err = w.RegisterSealedBid(req.Participant, req.Amount)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// WithdrawClaim removes a participant's claim from an open window.
func (h *Handler) WithdrawClaim(c *gin.Context) {
	w, err := h.window(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := w.WithdrawClaim(c.Param("participant")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OutcomeByItem looks up a recorded outcome by item label (case-insensitive).
func (h *Handler) OutcomeByItem(c *gin.Context) {
	session, err := h.manager.Get(c.Param("group"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	rec, err := session.OutcomeByItem(c.Param("item"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcomeResponse(rec))
}

func (h *Handler) window(c *gin.Context) (*engine.AuctionWindow, error) {
	session, err := h.manager.Get(c.Param("group"))
	if err != nil {
		return nil, err
	}
	return session.Window(c.Param("id"))
}

func outcomeResponse(rec *engine.RecordedOutcome) api.OutcomeResponse {
	return api.OutcomeResponse{
		WindowID: rec.WindowID,
		Item:     rec.Item,
		Outcome:  rec.Outcome,
		Digest:   rec.Digest,
	}
}

// abortWithError maps engine errors onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrNoActiveSession),
		errors.Is(err, engine.ErrWindowNotFound),
		errors.Is(err, engine.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, engine.ErrBelowMinimumBid),
		errors.Is(err, engine.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrSessionAlreadyActive),
		errors.Is(err, engine.ErrWindowClosed),
		errors.Is(err, engine.ErrAlreadyClaimed),
		errors.Is(err, engine.ErrNotClaimed),
		errors.Is(err, engine.ErrClaimModeMismatch),
		errors.Is(err, engine.ErrMinimumBidLocked),
		errors.Is(err, engine.ErrPriorityIneligible):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
