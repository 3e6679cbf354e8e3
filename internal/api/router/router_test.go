package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbl-digital/sales-enablement-portal/internal/chat"
	"github.com/bbl-digital/sales-enablement-portal/internal/export"
	"github.com/bbl-digital/sales-enablement-portal/internal/extract"
	"github.com/bbl-digital/sales-enablement-portal/internal/feedback"
	"github.com/bbl-digital/sales-enablement-portal/internal/relay"
	"github.com/bbl-digital/sales-enablement-portal/internal/state"
	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
)

func newTestRouter(t *testing.T, recsURL string) http.Handler {
	t.Helper()
	logger := logging.New("error")
	forwarder := relay.NewForwarder(logger)
	extractor := extract.New(logger)

	return New(&Config{
		Logger:     logger,
		Forwarder:  forwarder,
		RecsTarget: relay.Target{Name: "product-recs", URL: recsURL, FailureMessage: "Failed to fetch product recommendations"},
		QualifyTarget: relay.Target{
			Name: "qualify-leads", FailureMessage: "Failed to fetch qualify leads results",
		},
		FeedbackHandler: feedback.NewHandler(forwarder,
			relay.Target{Name: "feedback", FailureMessage: "Failed to send feedback."}, logger),
		ChatHandler: chat.NewHandler(forwarder,
			relay.Target{Name: "product-chat", FailureMessage: "Failed to fetch chatbot response"},
			chat.NewMemoryTranscriptStore(250), logger),
		ExportHandler:  export.NewHandler(logger),
		ExtractHandler: extract.NewHandler(extractor, 32<<20, logger),
		StateHandler:   state.NewHandler(state.NewStore(state.NewMemoryBackend()), logger),
	})
}

func TestHealthRoute(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestChecklistRoute(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/qualify-leads/checklist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lineItems")
}

func TestProductRecsRouteRelays(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"output_EN":"## 1. Loans"},{"output_EN":"## 1. Loans"}]`))
	}))
	defer upstream.Close()

	router := newTestRouter(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/product-recs", strings.NewReader(`{"companyName":"Acme"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "data")
}

func TestQualifyRouteNotConfigured(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/qualify-leads", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Webhook URL not configured"}`, rec.Body.String())
}

func TestStateRoutes(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodPut, "/api/state/ql/companyName", strings.NewReader(`"Acme"`))
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/state/ql", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":{"companyName":"Acme"}}`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
