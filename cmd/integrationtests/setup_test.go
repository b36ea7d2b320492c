package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	allocation "stall-allocation/internal/allocationService"
	"stall-allocation/internal/catalog"
	"stall-allocation/internal/clock"
	"stall-allocation/internal/repository"
	"stall-allocation/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const operatorKey = "integration-operator"

var start = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// testEnv is a fully wired engine behind the real router, driven by a fake clock
type testEnv struct {
	router  *gin.Engine
	clock   *clock.Fake
	service *allocation.AllocationService
	catalog *catalog.MemoryCatalog
}

// SetupTestEnv initializes the router with in-memory repository for integration testing.
func SetupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewFake(start)
	stalls := catalog.NewMemoryCatalog()
	svc := allocation.NewAllocationService(repository.NewMemoryRepo(), allocation.Dependencies{
		Clock:   clk,
		Catalog: stalls,
		Seeds:   allocation.FixedSeed(7),
		Settings: allocation.Settings{
			AuctionDuration: time.Hour,
			RaffleDuration:  time.Hour,
			BranchCap:       2,
		},
	})

	return &testEnv{
		router:  server.SetupRouter(svc, nil, operatorKey),
		clock:   clk,
		service: svc,
		catalog: stalls,
	}
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte, operator bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if operator {
		req.Header.Set(server.OperatorKeyHeader, operatorKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response envelope
func ExecuteRequestAndParse(t *testing.T, env *testEnv, method, url string, body any, operator bool) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err, "failed to marshal body")
	}

	w := ExecuteRequest(t, env.router, method, url, reqBody, operator)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "failed to unmarshal response")
	}
	return resp, w
}

// data returns the envelope's data object
func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	d, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return d
}

// createSession publishes a stall through the operator endpoint and returns the session ID
func createSession(t *testing.T, env *testEnv, body map[string]any) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, env, "POST", "/sessions", body, true)
	require.Equal(t, 201, w.Code, "create session: %v", resp)
	return data(t, resp)["session_id"].(string)
}
