package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelasq/wifisentry/internal/adapters/storage"
	"github.com/avelasq/wifisentry/internal/core/services/monitor"
)

const sampleScan = `
Interface name : Wi-Fi
There are 2 networks currently visible.

SSID 1 : HomeNetwork
    Authentication          : WPA2-Personal
    Encryption              : CCMP
    BSSID 1                 : aa:bb:cc:dd:ee:01
         Signal             : 70%

SSID 2 : FreeWifi
    Authentication          : Open
    Encryption              : None
    BSSID 1                 : aa:bb:cc:dd:ee:02
         Signal             : 88%
`

type fixedSource struct{ raw string }

func (f fixedSource) Scan(context.Context) (string, error) { return f.raw, nil }

func newTestServer(t *testing.T, keyHash []byte) *Server {
	t.Helper()
	store, err := storage.NewSQLiteAdapter(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	mon := monitor.New(fixedSource{raw: sampleScan}, store)
	return NewServer("127.0.0.1:0", mon, store, store, NewWSManager(8), keyHash)
}

func TestScanEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/scan", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "HomeNetwork")
	assert.Contains(t, body, "FreeWifi")
	assert.Contains(t, body, `"risk":"High"`)
}

func TestMonitorStatusEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/monitor/status", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"running":false`)
	assert.Contains(t, rec.Body.String(), `"ws_clients":0`)
}

func TestMonitorStopWithoutStart(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/monitor/stop", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListCRUDOverHTTP(t *testing.T) {
	srv := newTestServer(t, nil)
	router := srv.Routes()

	req := httptest.NewRequest(http.MethodPost, "/api/lists/blacklist",
		strings.NewReader(`{"bssid":"AA:BB:CC:DD:EE:FF"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/lists/blacklist", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aa:bb:cc:dd:ee:ff")

	req = httptest.NewRequest(http.MethodDelete, "/api/lists/blacklist/aa:bb:cc:dd:ee:ff", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/lists/blacklist", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"entries":[]`)
}

func TestUnknownListKind(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/lists/greylist", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordFailureEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/failures",
		strings.NewReader(`{"ssid":"Home","bssid":"aa:bb:cc:dd:ee:01","reason":"auth timeout"}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRecordFailureRejectsEmptyBody(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/failures", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIKeyGuard(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sentry-key"), bcrypt.MinCost)
	require.NoError(t, err)
	srv := newTestServer(t, hash)
	router := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/monitor/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/monitor/status", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/monitor/status", nil)
	req.Header.Set("X-API-Key", "sentry-key")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDownloadReport(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/download", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}
