package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maseurodrigo/TipStream-sub000/internal/hub"
	"github.com/maseurodrigo/TipStream-sub000/internal/service"
	"github.com/maseurodrigo/TipStream-sub000/internal/store"
)

func newHTTPRouter(t *testing.T) (*mux.Router, service.RelayService) {
	t.Helper()

	h := hub.NewHub()
	svc := service.NewRelayService(h, store.NewMemorySessionStateStore())
	httpHandler := NewHTTPHandler(svc)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/sessions/{session_id}/members", httpHandler.GetMembers).Methods("GET")
	router.HandleFunc("/stats", httpHandler.GetStats).Methods("GET")
	router.HandleFunc("/health", httpHandler.HealthCheck).Methods("GET")
	return router, svc
}

func TestHTTP_GetMembers(t *testing.T) {
	router, svc := newHTTPRouter(t)
	ctx := context.Background()

	a := &hub.Client{ID: "a", Send: make(chan []byte, 8)}
	b := &hub.Client{ID: "b", Send: make(chan []byte, 8)}
	require.NoError(t, svc.HandleJoin(ctx, a, "s1"))
	require.NoError(t, svc.HandleJoin(ctx, b, "s1"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1/members", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp MembersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, 2, resp.Count)
	assert.ElementsMatch(t, []string{"a", "b"}, resp.Members)
}

func TestHTTP_GetMembersEmptySession(t *testing.T) {
	router, _ := newHTTPRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/unknown/members", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp MembersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Members)
}

func TestHTTP_Stats(t *testing.T) {
	router, svc := newHTTPRouter(t)
	ctx := context.Background()

	a := &hub.Client{ID: "a", Send: make(chan []byte, 8)}
	require.NoError(t, svc.HandleJoin(ctx, a, "s1"))
	require.NoError(t, svc.HandlePublish(ctx, a, "s1", json.RawMessage(`{"v":1}`)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats["sessions"])
	assert.Equal(t, 1, stats["stored_states"])
}

func TestHTTP_Health(t *testing.T) {
	router, _ := newHTTPRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
