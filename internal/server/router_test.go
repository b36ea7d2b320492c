package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	model "stall-allocation/internal/models"
	handler "stall-allocation/services/allocation/handler"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func serve(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_OperatorGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cancelBody := `{"operator_id":"op","reason":"closed"}`

	t.Run("missing_key", func(t *testing.T) {
		svc := handler.NewMockAllocationServiceInterface(gomock.NewController(t))
		router := SetupRouter(svc, nil, "secret")

		w := serve(router, http.MethodPost, "/sessions/s1/cancel", cancelBody, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong_key", func(t *testing.T) {
		svc := handler.NewMockAllocationServiceInterface(gomock.NewController(t))
		router := SetupRouter(svc, nil, "secret")

		w := serve(router, http.MethodPost, "/sessions/s1/extend", `{"by":"1h","operator_id":"op"}`,
			map[string]string{OperatorKeyHeader: "guess"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("disabled_without_key", func(t *testing.T) {
		svc := handler.NewMockAllocationServiceInterface(gomock.NewController(t))
		router := SetupRouter(svc, nil, "")

		w := serve(router, http.MethodPost, "/sessions", `{}`, map[string]string{OperatorKeyHeader: ""})
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("valid_key", func(t *testing.T) {
		svc := handler.NewMockAllocationServiceInterface(gomock.NewController(t))
		svc.EXPECT().
			Cancel(gomock.Any(), model.Cancel{SessionID: "s1", OperatorID: "op", Reason: "closed"}).
			Return(model.Session{SessionID: "s1", Status: model.StatusCancelled}, nil)
		router := SetupRouter(svc, nil, "secret")

		w := serve(router, http.MethodPost, "/sessions/s1/cancel", cancelBody,
			map[string]string{OperatorKeyHeader: "secret"})
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSetupRouter_PublicRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := handler.NewMockAllocationServiceInterface(gomock.NewController(t))
	svc.EXPECT().GetBids(gomock.Any(), "s1").Return([]model.Bid{}, nil)
	router := SetupRouter(svc, nil, "secret")

	w := serve(router, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/sessions/s1/bids", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), "go_goroutines"))
}
