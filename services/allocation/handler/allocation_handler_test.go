package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stall-allocation/internal/allocationerrors"
	"stall-allocation/internal/catalog"
	model "stall-allocation/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newRouter(t *testing.T) (*gin.Engine, *MockAllocationServiceInterface, *MockSessionStreamer) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockService := NewMockAllocationServiceInterface(ctrl)
	mockStreamer := NewMockSessionStreamer(ctrl)
	h := NewAllocationHandler(mockService, mockStreamer)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/sessions", h.CreateSessionHandler)
	router.GET("/sessions", h.ListSessionsHandler)
	router.GET("/sessions/:session_id", h.GetSessionHandler)
	router.POST("/sessions/:session_id/bids", h.PlaceBidHandler)
	router.GET("/sessions/:session_id/bids", h.GetBidsHandler)
	router.POST("/sessions/:session_id/participants", h.RegisterHandler)
	router.DELETE("/sessions/:session_id/participants/:applicant_id", h.WithdrawHandler)
	router.GET("/sessions/:session_id/participants", h.GetParticipantsHandler)
	router.GET("/sessions/:session_id/participants/:applicant_id", h.GetParticipantHandler)
	router.GET("/sessions/:session_id/winner", h.GetWinnerHandler)
	router.POST("/sessions/:session_id/extend", h.ExtendHandler)
	router.POST("/sessions/:session_id/cancel", h.CancelHandler)
	router.GET("/sessions/:session_id/stream", h.StreamHandler)
	router.GET("/applicants/:applicant_id/registrations", h.GetApplicantRegistrationsHandler)
	router.GET("/stalls/:stall_id", h.GetStallHandler)

	return router, mockService, mockStreamer
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func openAuction() model.Session {
	return model.Session{
		SessionID: "s1",
		StallID:   "stall-1",
		BranchID:  "b1",
		Kind:      model.KindAuction,
		Status:    model.StatusOpen,
		CreatedAt: now,
		Deadline:  now.Add(time.Hour),
		Auction: model.AuctionConfig{
			StartingPrice:    decimal.NewFromInt(1000),
			MinimumIncrement: decimal.NewFromInt(100),
		},
	}
}

func rejected(sentinel error) error {
	return allocationerrors.Reject(sentinel, "rejected for test")
}

func TestCreateSessionHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockAllocationServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success_auction",
			requestBody: map[string]any{
				"stall_id":          "stall-1",
				"branch_id":         "b1",
				"kind":              "auction",
				"duration":          "48h",
				"starting_price":    "1000.00",
				"minimum_increment": "100",
			},
			mockSetup: func(m *MockAllocationServiceInterface) {
				m.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, cmd model.CreateSession) (model.Session, error) {
						require.Equal(t, "stall-1", cmd.StallID)
						require.Equal(t, model.KindAuction, cmd.Kind)
						require.Equal(t, 48*time.Hour, cmd.Duration)
						require.True(t, cmd.StartingPrice.Equal(decimal.NewFromInt(1000)))
						require.True(t, cmd.MinimumIncrement.Equal(decimal.NewFromInt(100)))
						s := openAuction()
						s.Status = model.StatusAwaitingFirstActivity
						s.Deadline = time.Time{}
						return s, nil
					})
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "session created successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func(m *MockAllocationServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "unknown_kind",
			requestBody:    map[string]any{"stall_id": "stall-1", "branch_id": "b1", "kind": "lottery"},
			mockSetup:      func(m *MockAllocationServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "bad_duration",
			requestBody:    map[string]any{"stall_id": "stall-1", "branch_id": "b1", "kind": "raffle", "duration": "three days"},
			mockSetup:      func(m *MockAllocationServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "service_validation_error",
			requestBody: map[string]any{"stall_id": "stall-1", "branch_id": "b1", "kind": "auction", "minimum_increment": "0"},
			mockSetup: func(m *MockAllocationServiceInterface) {
				m.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
					Return(model.Session{}, fmt.Errorf("service: %w", allocationerrors.Invalid("increment must be positive")))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request",
		},
		{
			name:        "stall_has_open_session",
			requestBody: map[string]any{"stall_id": "stall-1", "branch_id": "b1", "kind": "raffle"},
			mockSetup: func(m *MockAllocationServiceInterface) {
				m.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
					Return(model.Session{}, fmt.Errorf("service: %w", allocationerrors.ErrStallHasOpenSession))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "stall already has an open session",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, mockService, _ := newRouter(t)
			tc.mockSetup(mockService)

			w, resp := do(t, router, http.MethodPost, "/sessions", tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if w.Code == http.StatusCreated {
				data := resp["data"].(map[string]any)
				require.Equal(t, "s1", data["session_id"])
				require.Equal(t, "awaiting_first_activity", data["status"])
				require.Equal(t, "1000.00", data["starting_price"])
				require.NotContains(t, data, "deadline")
			}
		})
	}
}

func TestPlaceBidHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockAllocationServiceInterface)
		expectedStatus int
		expectedMsg    string
		expectedReason string
	}{
		{
			name:        "success_valid_bid",
			requestBody: map[string]any{"bidder_id": "u1", "amount": 1000},
			mockSetup: func(m *MockAllocationServiceInterface) {
				m.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, cmd model.PlaceBid) (model.BidResult, error) {
						require.Equal(t, "s1", cmd.SessionID)
						require.Equal(t, "u1", cmd.BidderID)
						require.True(t, cmd.Amount.Equal(decimal.NewFromInt(1000)))

						s := openAuction()
						s.HighestBidID = "b-1"
						s.HighestAmount = cmd.Amount
						s.BidCount = 1
						return model.BidResult{
							Bid: model.Bid{
								BidID: "b-1", SessionID: "s1", BidderID: "u1",
								Amount: cmd.Amount, SubmittedAt: now, Sequence: 1,
							},
							NewHighest: cmd.Amount,
							Session:    s,
						}, nil
					})
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid recorded successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func(m *MockAllocationServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_bidder_id",
			requestBody:    map[string]any{"amount": 1000},
			mockSetup:      func(m *MockAllocationServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "bid_too_low",
			requestBody: map[string]any{"bidder_id": "u2", "amount": "1050"},
			mockSetup: func(m *MockAllocationServiceInterface) {
				m.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
					Return(model.BidResult{}, rejected(allocationerrors.ErrBidTooLow))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid amount too low",
			expectedReason: "BidTooLow",
		},
		{
			name:        "session_expired",
			requestBody: map[string]any{"bidder_id": "u2", "amount": "1500"},
			mockSetup: func(m *MockAllocationServiceInterface) {
				m.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
					Return(model.BidResult{}, rejected(allocationerrors.ErrSessionExpired))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "session expired",
			expectedReason: "SessionExpired",
		},
		{
			name:        "session_not_found",
			requestBody: map[string]any{"bidder_id": "u2", "amount": "1500"},
			mockSetup: func(m *MockAllocationServiceInterface) {
				m.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
					Return(model.BidResult{}, fmt.Errorf("service: %w", allocationerrors.ErrSessionNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "session not found",
		},
		{
			name:        "concurrency_conflict",
			requestBody: map[string]any{"bidder_id": "u2", "amount": "1500"},
			mockSetup: func(m *MockAllocationServiceInterface) {
				m.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
					Return(model.BidResult{}, fmt.Errorf("service: %w", allocationerrors.ErrConcurrencyConflict))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "concurrent update",
		},
		{
			name:        "service_generic_error",
			requestBody: map[string]any{"bidder_id": "u2", "amount": "1500"},
			mockSetup: func(m *MockAllocationServiceInterface) {
				m.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
					Return(model.BidResult{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, mockService, _ := newRouter(t)
			tc.mockSetup(mockService)

			w, resp := do(t, router, http.MethodPost, "/sessions/s1/bids", tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if tc.expectedReason != "" {
				require.Equal(t, tc.expectedReason, resp["reason"])
			} else {
				require.NotContains(t, resp, "reason")
			}

			if w.Code == http.StatusCreated {
				data := resp["data"].(map[string]any)
				require.Equal(t, "1000.00", data["new_highest"])
				bid := data["bid"].(map[string]any)
				require.Equal(t, "b-1", bid["bid_id"])
				require.Equal(t, "1000.00", bid["amount"])
				require.Equal(t, float64(1), bid["sequence"])
				session := data["session"].(map[string]any)
				require.Equal(t, float64(1), session["bid_count"])
			}
		})
	}
}

func TestRegistrationHandlers(t *testing.T) {
	participant := model.Participant{
		ParticipantID:      "p-1",
		SessionID:          "s1",
		BranchID:           "b1",
		ApplicantID:        "a1",
		RegisteredAt:       now,
		RegistrationStatus: model.Registered,
	}

	t.Run("register_success", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().
			Register(gomock.Any(), model.Register{SessionID: "s1", ApplicantID: "a1"}).
			Return(model.RegistrationResult{Participant: participant}, nil)

		w, resp := do(t, router, http.MethodPost, "/sessions/s1/participants", map[string]any{"applicant_id": "a1"})
		require.Equal(t, http.StatusCreated, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, "p-1", data["participant_id"])
		require.Equal(t, "registered", data["registration_status"])
	})

	t.Run("register_missing_applicant", func(t *testing.T) {
		router, _, _ := newRouter(t)
		w, resp := do(t, router, http.MethodPost, "/sessions/s1/participants", map[string]any{})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, resp["message"], "invalid request payload")
	})

	t.Run("register_branch_cap", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(model.RegistrationResult{}, rejected(allocationerrors.ErrBranchCapExceeded))

		w, resp := do(t, router, http.MethodPost, "/sessions/s1/participants", map[string]any{"applicant_id": "a1"})
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "BranchCapExceeded", resp["reason"])
	})

	t.Run("withdraw_success", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		withdrawn := participant
		withdrawn.RegistrationStatus = model.Withdrawn
		withdrawn.WithdrawnAt = now.Add(time.Minute)
		mockService.EXPECT().
			Withdraw(gomock.Any(), model.Withdraw{SessionID: "s1", ApplicantID: "a1"}).
			Return(model.RegistrationResult{Participant: withdrawn}, nil)

		w, resp := do(t, router, http.MethodDelete, "/sessions/s1/participants/a1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, "withdrawn", data["registration_status"])
		require.NotEmpty(t, data["withdrawn_at"])
	})

	t.Run("withdraw_not_participant", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().Withdraw(gomock.Any(), gomock.Any()).
			Return(model.RegistrationResult{}, rejected(allocationerrors.ErrNotParticipant))

		w, resp := do(t, router, http.MethodDelete, "/sessions/s1/participants/zz", nil)
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "NotParticipant", resp["reason"])
	})

	t.Run("list_participants", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().GetParticipants(gomock.Any(), "s1").
			Return([]model.Participant{participant}, nil)

		w, resp := do(t, router, http.MethodGet, "/sessions/s1/participants", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, resp["data"], 1)
	})

	t.Run("single_participant", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().GetParticipant(gomock.Any(), "s1", "a1").Return(participant, nil)

		w, resp := do(t, router, http.MethodGet, "/sessions/s1/participants/a1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "a1", resp["data"].(map[string]any)["applicant_id"])
	})

	t.Run("single_participant_unknown", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().GetParticipant(gomock.Any(), "s1", "zz").
			Return(model.Participant{}, fmt.Errorf("service: %w", allocationerrors.ErrParticipantNotFound))

		w, _ := do(t, router, http.MethodGet, "/sessions/s1/participants/zz", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("applicant_registrations", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().GetRegistrationsByApplicant(gomock.Any(), "a1").
			Return([]model.Participant{participant}, nil)

		w, resp := do(t, router, http.MethodGet, "/applicants/a1/registrations", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, resp["data"], 1)
	})
}

func TestReadHandlers(t *testing.T) {
	t.Run("bids_empty_ledger", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().GetBids(gomock.Any(), "s1").Return([]model.Bid{}, nil)

		w, resp := do(t, router, http.MethodGet, "/sessions/s1/bids", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, []any{}, resp["data"])
	})

	t.Run("summary", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		highest := model.Bid{BidID: "b-2", SessionID: "s1", BidderID: "u3", Amount: decimal.NewFromInt(1100), SubmittedAt: now, Sequence: 2}
		mockService.EXPECT().GetSummary(gomock.Any(), "s1").Return(model.Summary{
			Session:    openAuction(),
			Remaining:  40 * time.Minute,
			HighestBid: &highest,
		}, nil)

		w, resp := do(t, router, http.MethodGet, "/sessions/s1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, float64(2400), data["remaining_seconds"])
		require.Equal(t, "1100.00", data["highest_bid"].(map[string]any)["amount"])
		require.NotContains(t, data, "winner")
	})

	t.Run("summary_not_found", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().GetSummary(gomock.Any(), "nope").
			Return(model.Summary{}, fmt.Errorf("service: %w", allocationerrors.ErrSessionNotFound))

		w, _ := do(t, router, http.MethodGet, "/sessions/nope", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list_sessions_by_status", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().
			ListSessions(gomock.Any(), model.StatusOpen, model.StatusExpired).
			Return([]model.Session{openAuction()}, nil)

		w, resp := do(t, router, http.MethodGet, "/sessions?status=open&status=expired", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, resp["data"], 1)
	})

	t.Run("winner_awarded", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		value := decimal.NewFromInt(1100)
		mockService.EXPECT().GetWinner(gomock.Any(), "s1").Return(model.WinnerRecord{
			SessionID:         "s1",
			StallID:           "stall-1",
			Outcome:           model.OutcomeAwarded,
			WinnerApplicantID: "u3",
			WinningBidID:      "b-2",
			WinningValue:      &value,
			SelectionMethod:   model.MethodHighestBid,
			SelectedAt:        now,
			CandidateCount:    2,
		}, nil)

		w, resp := do(t, router, http.MethodGet, "/sessions/s1/winner", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, "u3", data["winner_applicant_id"])
		require.Equal(t, "1100.00", data["winning_value"])
		require.Equal(t, "highest_bid", data["selection_method"])
	})

	t.Run("winner_not_selected", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().GetWinner(gomock.Any(), "s1").
			Return(model.WinnerRecord{}, fmt.Errorf("service: %w", allocationerrors.ErrNoWinner))

		w, resp := do(t, router, http.MethodGet, "/sessions/s1/winner", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Contains(t, resp["message"], "winner not selected yet")
	})

	t.Run("stall", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().GetStall(gomock.Any(), "stall-1").Return(catalog.Stall{
			StallID: "stall-1", BranchID: "b1", State: catalog.StallOccupied, OccupantID: "u3", UpdatedAt: now,
		}, nil)

		w, resp := do(t, router, http.MethodGet, "/stalls/stall-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, "occupied", data["state"])
		require.Equal(t, "u3", data["occupant_id"])
	})
}

func TestOperatorHandlers(t *testing.T) {
	t.Run("extend_success", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		extended := openAuction()
		extended.Deadline = extended.Deadline.Add(30 * time.Minute)
		extended.ExtensionCount = 1
		mockService.EXPECT().
			Extend(gomock.Any(), model.Extend{SessionID: "s1", By: 30 * time.Minute, OperatorID: "op", Reason: "storm"}).
			Return(extended, nil)

		w, resp := do(t, router, http.MethodPost, "/sessions/s1/extend", map[string]any{"by": "30m", "operator_id": "op", "reason": "storm"})
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, float64(1), data["extension_count"])
	})

	t.Run("extend_bad_duration", func(t *testing.T) {
		router, _, _ := newRouter(t)
		w, _ := do(t, router, http.MethodPost, "/sessions/s1/extend", map[string]any{"by": "a while", "operator_id": "op"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("extend_limit", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().Extend(gomock.Any(), gomock.Any()).
			Return(model.Session{}, fmt.Errorf("service: %w", allocationerrors.ErrExtensionLimitExceeded))

		w, resp := do(t, router, http.MethodPost, "/sessions/s1/extend", map[string]any{"by": "720h", "operator_id": "op"})
		require.Equal(t, http.StatusConflict, w.Code)
		require.Contains(t, resp["message"], "maximum total extension exceeded")
	})

	t.Run("cancel_success", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		cancelled := openAuction()
		cancelled.Status = model.StatusCancelled
		cancelled.CancelReason = "stall damaged"
		mockService.EXPECT().
			Cancel(gomock.Any(), model.Cancel{SessionID: "s1", OperatorID: "op", Reason: "stall damaged"}).
			Return(cancelled, nil)

		w, resp := do(t, router, http.MethodPost, "/sessions/s1/cancel", map[string]any{"operator_id": "op", "reason": "stall damaged"})
		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, "cancelled", data["status"])
		require.Equal(t, "stall damaged", data["cancel_reason"])
	})

	t.Run("cancel_terminal", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().Cancel(gomock.Any(), gomock.Any()).
			Return(model.Session{}, fmt.Errorf("service: %w", allocationerrors.ErrInvalidTransition))

		w, _ := do(t, router, http.MethodPost, "/sessions/s1/cancel", map[string]any{"operator_id": "op"})
		require.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestStreamHandler(t *testing.T) {
	t.Run("unknown_session", func(t *testing.T) {
		router, mockService, _ := newRouter(t)
		mockService.EXPECT().GetSummary(gomock.Any(), "nope").
			Return(model.Summary{}, fmt.Errorf("service: %w", allocationerrors.ErrSessionNotFound))

		w, _ := do(t, router, http.MethodGet, "/sessions/nope/stream", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("hands_off_to_streamer", func(t *testing.T) {
		router, mockService, mockStreamer := newRouter(t)
		mockService.EXPECT().GetSummary(gomock.Any(), "s1").Return(model.Summary{Session: openAuction()}, nil)
		mockStreamer.EXPECT().ServeSession(gomock.Any(), gomock.Any(), "s1").
			Do(func(w http.ResponseWriter, _ *http.Request, _ string) {
				_, _ = w.Write([]byte("streaming"))
			})

		req := httptest.NewRequest(http.MethodGet, "/sessions/s1/stream", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "streaming", w.Body.String())
	})

	t.Run("disabled", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		h := NewAllocationHandler(NewMockAllocationServiceInterface(gomock.NewController(t)), nil)
		router := gin.New()
		router.GET("/sessions/:session_id/stream", h.StreamHandler)

		w, _ := do(t, router, http.MethodGet, "/sessions/s1/stream", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
