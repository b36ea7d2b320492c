package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"stall-allocation/internal/catalog"
	model "stall-allocation/internal/models"
	"stall-allocation/services/allocation/helpers"
	"stall-allocation/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=allocation_handler.go -destination=mock_service.go -package=handler

type AllocationServiceInterface interface {
	CreateSession(ctx context.Context, cmd model.CreateSession) (model.Session, error)
	PlaceBid(ctx context.Context, cmd model.PlaceBid) (model.BidResult, error)
	Register(ctx context.Context, cmd model.Register) (model.RegistrationResult, error)
	Withdraw(ctx context.Context, cmd model.Withdraw) (model.RegistrationResult, error)
	Extend(ctx context.Context, cmd model.Extend) (model.Session, error)
	Cancel(ctx context.Context, cmd model.Cancel) (model.Session, error)
	GetSummary(ctx context.Context, sessionID string) (model.Summary, error)
	ListSessions(ctx context.Context, statuses ...model.SessionStatus) ([]model.Session, error)
	GetBids(ctx context.Context, sessionID string) ([]model.Bid, error)
	GetParticipants(ctx context.Context, sessionID string) ([]model.Participant, error)
	GetParticipant(ctx context.Context, sessionID, applicantID string) (model.Participant, error)
	GetWinner(ctx context.Context, sessionID string) (model.WinnerRecord, error)
	GetRegistrationsByApplicant(ctx context.Context, applicantID string) ([]model.Participant, error)
	GetStall(ctx context.Context, stallID string) (catalog.Stall, error)
}

// SessionStreamer upgrades a request into a live event stream for one session
type SessionStreamer interface {
	ServeSession(w http.ResponseWriter, r *http.Request, sessionID string)
}

type AllocationHandler struct {
	service  AllocationServiceInterface
	streamer SessionStreamer
}

func NewAllocationHandler(service AllocationServiceInterface, streamer SessionStreamer) *AllocationHandler {
	return &AllocationHandler{service: service, streamer: streamer}
}

// CreateSessionHandler handles POST /sessions
func (h *AllocationHandler) CreateSessionHandler(c *gin.Context) {
	var req helpers.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateSessionHandler", err)
		return
	}

	var duration time.Duration
	if req.Duration != "" {
		d, err := time.ParseDuration(req.Duration)
		if err != nil {
			helpers.HandleBindError(c, "CreateSessionHandler", err)
			return
		}
		duration = d
	}

	session, err := h.service.CreateSession(c.Request.Context(), model.CreateSession{
		StallID:             req.StallID,
		BranchID:            req.BranchID,
		Kind:                model.SessionKind(req.Kind),
		Duration:            duration,
		StartingPrice:       req.StartingPrice,
		MinimumIncrement:    req.MinimumIncrement,
		RequireRegistration: req.RequireRegistration,
		MaxParticipants:     req.MaxParticipants,
	})
	if err != nil {
		helpers.RespondError(c, "CreateSessionHandler", err, map[string]any{
			"stall_id":  req.StallID,
			"branch_id": req.BranchID,
			"kind":      req.Kind,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToSessionResponse(session), "session created successfully")
	helpers.LogSuccess("CreateSessionHandler", "session created successfully", map[string]any{
		"session_id": session.SessionID,
		"stall_id":   session.StallID,
		"kind":       session.Kind,
	})
}

// ListSessionsHandler handles GET /sessions?status=open&status=expired
func (h *AllocationHandler) ListSessionsHandler(c *gin.Context) {
	var statuses []model.SessionStatus
	for _, raw := range c.QueryArray("status") {
		statuses = append(statuses, model.SessionStatus(raw))
	}

	sessions, err := h.service.ListSessions(c.Request.Context(), statuses...)
	if err != nil {
		helpers.RespondError(c, "ListSessionsHandler", err, nil)
		return
	}

	resp := make([]helpers.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, helpers.ToSessionResponse(s))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "sessions retrieved successfully")
	helpers.LogSuccess("ListSessionsHandler", "sessions retrieved successfully", map[string]any{"count": len(resp)})
}

// GetSessionHandler handles GET /sessions/:session_id
func (h *AllocationHandler) GetSessionHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	summary, err := h.service.GetSummary(c.Request.Context(), sessionID)
	if err != nil {
		helpers.RespondError(c, "GetSessionHandler", err, map[string]any{"session_id": sessionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToSummaryResponse(summary), "session retrieved successfully")
}

// PlaceBidHandler handles POST /sessions/:session_id/bids
func (h *AllocationHandler) PlaceBidHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	result, err := h.service.PlaceBid(c.Request.Context(), model.PlaceBid{
		SessionID: sessionID,
		BidderID:  req.BidderID,
		Amount:    req.Amount,
	})
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"session_id": sessionID,
			"bidder_id":  req.BidderID,
			"amount":     req.Amount.String(),
		})
		return
	}

	resp := helpers.BidResultResponse{
		Bid:        helpers.ToBidResponse(result.Bid),
		NewHighest: result.NewHighest.StringFixed(2),
		Session:    helpers.ToSessionResponse(result.Session),
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid recorded successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     result.Bid.BidID,
		"session_id": sessionID,
		"bidder_id":  req.BidderID,
		"amount":     result.Bid.Amount.String(),
	})
}

// GetBidsHandler handles GET /sessions/:session_id/bids
func (h *AllocationHandler) GetBidsHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	bids, err := h.service.GetBids(c.Request.Context(), sessionID)
	if err != nil {
		helpers.RespondError(c, "GetBidsHandler", err, map[string]any{"session_id": sessionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsHandler", "bids retrieved successfully", map[string]any{
		"session_id": sessionID,
		"count":      len(bids),
	})
}

// RegisterHandler handles POST /sessions/:session_id/participants
func (h *AllocationHandler) RegisterHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	var req helpers.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterHandler", err)
		return
	}

	result, err := h.service.Register(c.Request.Context(), model.Register{
		SessionID:   sessionID,
		ApplicantID: req.ApplicantID,
	})
	if err != nil {
		helpers.RespondError(c, "RegisterHandler", err, map[string]any{
			"session_id":   sessionID,
			"applicant_id": req.ApplicantID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToParticipantResponse(result.Participant), "registration recorded successfully")
	helpers.LogSuccess("RegisterHandler", "registration recorded successfully", map[string]any{
		"participant_id": result.Participant.ParticipantID,
		"session_id":     sessionID,
		"applicant_id":   req.ApplicantID,
	})
}

// WithdrawHandler handles DELETE /sessions/:session_id/participants/:applicant_id
func (h *AllocationHandler) WithdrawHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	applicantID := c.Param("applicant_id")

	result, err := h.service.Withdraw(c.Request.Context(), model.Withdraw{
		SessionID:   sessionID,
		ApplicantID: applicantID,
	})
	if err != nil {
		helpers.RespondError(c, "WithdrawHandler", err, map[string]any{
			"session_id":   sessionID,
			"applicant_id": applicantID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToParticipantResponse(result.Participant), "registration withdrawn successfully")
	helpers.LogSuccess("WithdrawHandler", "registration withdrawn successfully", map[string]any{
		"session_id":   sessionID,
		"applicant_id": applicantID,
	})
}

// GetParticipantsHandler handles GET /sessions/:session_id/participants
func (h *AllocationHandler) GetParticipantsHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	participants, err := h.service.GetParticipants(c.Request.Context(), sessionID)
	if err != nil {
		helpers.RespondError(c, "GetParticipantsHandler", err, map[string]any{"session_id": sessionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToParticipantResponses(participants), "participants retrieved successfully")
	helpers.LogSuccess("GetParticipantsHandler", "participants retrieved successfully", map[string]any{
		"session_id": sessionID,
		"count":      len(participants),
	})
}

// GetParticipantHandler handles GET /sessions/:session_id/participants/:applicant_id
func (h *AllocationHandler) GetParticipantHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	applicantID := c.Param("applicant_id")

	participant, err := h.service.GetParticipant(c.Request.Context(), sessionID, applicantID)
	if err != nil {
		helpers.RespondError(c, "GetParticipantHandler", err, map[string]any{
			"session_id":   sessionID,
			"applicant_id": applicantID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToParticipantResponse(participant), "participant retrieved successfully")
}

// GetWinnerHandler handles GET /sessions/:session_id/winner
func (h *AllocationHandler) GetWinnerHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	winner, err := h.service.GetWinner(c.Request.Context(), sessionID)
	if err != nil {
		helpers.RespondError(c, "GetWinnerHandler", err, map[string]any{"session_id": sessionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToWinnerResponse(winner), "winner retrieved successfully")
	helpers.LogSuccess("GetWinnerHandler", "winner retrieved successfully", map[string]any{
		"session_id": sessionID,
		"outcome":    winner.Outcome,
		"winner_id":  winner.WinnerApplicantID,
	})
}

// ExtendHandler handles POST /sessions/:session_id/extend
func (h *AllocationHandler) ExtendHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	var req helpers.ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ExtendHandler", err)
		return
	}
	by, err := time.ParseDuration(req.By)
	if err != nil {
		helpers.HandleBindError(c, "ExtendHandler", err)
		return
	}

	session, err := h.service.Extend(c.Request.Context(), model.Extend{
		SessionID:  sessionID,
		By:         by,
		OperatorID: req.OperatorID,
		Reason:     req.Reason,
	})
	if err != nil {
		helpers.RespondError(c, "ExtendHandler", err, map[string]any{
			"session_id":  sessionID,
			"operator_id": req.OperatorID,
			"by":          req.By,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToSessionResponse(session), "session extended successfully")
	helpers.LogSuccess("ExtendHandler", "session extended successfully", map[string]any{
		"session_id":  sessionID,
		"operator_id": req.OperatorID,
		"deadline":    session.Deadline,
	})
}

// CancelHandler handles POST /sessions/:session_id/cancel
func (h *AllocationHandler) CancelHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	var req helpers.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CancelHandler", err)
		return
	}

	session, err := h.service.Cancel(c.Request.Context(), model.Cancel{
		SessionID:  sessionID,
		OperatorID: req.OperatorID,
		Reason:     req.Reason,
	})
	if err != nil {
		helpers.RespondError(c, "CancelHandler", err, map[string]any{
			"session_id":  sessionID,
			"operator_id": req.OperatorID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToSessionResponse(session), "session cancelled successfully")
	helpers.LogSuccess("CancelHandler", "session cancelled successfully", map[string]any{
		"session_id":  sessionID,
		"operator_id": req.OperatorID,
	})
}

// GetApplicantRegistrationsHandler handles GET /applicants/:applicant_id/registrations
func (h *AllocationHandler) GetApplicantRegistrationsHandler(c *gin.Context) {
	applicantID := c.Param("applicant_id")
	regs, err := h.service.GetRegistrationsByApplicant(c.Request.Context(), applicantID)
	if err != nil {
		helpers.RespondError(c, "GetApplicantRegistrationsHandler", err, map[string]any{"applicant_id": applicantID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToParticipantResponses(regs), "registrations retrieved successfully")
}

// GetStallHandler handles GET /stalls/:stall_id
func (h *AllocationHandler) GetStallHandler(c *gin.Context) {
	stallID := c.Param("stall_id")
	stall, err := h.service.GetStall(c.Request.Context(), stallID)
	if err != nil {
		helpers.RespondError(c, "GetStallHandler", err, map[string]any{"stall_id": stallID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToStallResponse(stall), "stall retrieved successfully")
}

// StreamHandler handles GET /sessions/:session_id/stream (websocket upgrade)
func (h *AllocationHandler) StreamHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	if h.streamer == nil {
		utils.JSONError(c, http.StatusNotFound, fmt.Errorf("live stream disabled"), "stream not available")
		return
	}

	if _, err := h.service.GetSummary(c.Request.Context(), sessionID); err != nil {
		helpers.RespondError(c, "StreamHandler", err, map[string]any{"session_id": sessionID})
		return
	}

	h.streamer.ServeSession(c.Writer, c.Request, sessionID)
}
