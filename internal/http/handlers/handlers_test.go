package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"delivery-allocation/internal/http/handlers"
	"delivery-allocation/internal/logx"
	testlog "delivery-allocation/internal/testutil"
)

func testLogger() logx.Logger {
	return testlog.New().Logger()
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func TestHandlers_Ping(t *testing.T) {
	t.Parallel()

	h := handlers.New(nil)
	rr := httptest.NewRecorder()
	h.Ping(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.Equal(t, "pong", decodeBody[map[string]string](t, rr)["message"])
}

func TestHandlers_HealthcheckHead(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	handlers.New(nil).HealthcheckHead(rr, httptest.NewRequest(http.MethodHead, "/healthcheck", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestHandlers_NotFound(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	rr := httptest.NewRecorder()
	handlers.New(rec.Logger()).NotFound(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "route not found", decodeBody[map[string]string](t, rr)["error"])
	require.Equal(t, "http error", rec.Entries()[0].Msg)
}
