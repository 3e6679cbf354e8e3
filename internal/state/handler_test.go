package state

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
)

func newStateRouter() chi.Router {
	h := NewHandler(NewStore(NewMemoryBackend()), logging.New("error"))
	r := chi.NewRouter()
	r.Get("/api/state/{namespace}", h.Snapshot)
	r.Delete("/api/state/{namespace}", h.Clear)
	r.Put("/api/state/{namespace}/{key}", h.Put)
	r.Delete("/api/state/{namespace}/{key}", h.Remove)
	return r
}

func doState(t *testing.T, router chi.Router, method, path, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStateHandlerRoundTrip(t *testing.T) {
	router := newStateRouter()

	rec := doState(t, router, http.MethodPut, "/api/state/ql/companyName", "sess-1", `"Acme Trading"`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doState(t, router, http.MethodGet, "/api/state/ql", "sess-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":{"companyName":"Acme Trading"}}`, rec.Body.String())
}

func TestStateHandlerClear(t *testing.T) {
	router := newStateRouter()

	doState(t, router, http.MethodPut, "/api/state/ql/a", "sess-1", `1`)
	doState(t, router, http.MethodPut, "/api/state/ql/b", "sess-1", `2`)

	rec := doState(t, router, http.MethodDelete, "/api/state/ql", "sess-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doState(t, router, http.MethodGet, "/api/state/ql", "sess-1", "")
	assert.JSONEq(t, `{"state":{}}`, rec.Body.String())
}

func TestStateHandlerRemoveSingleKey(t *testing.T) {
	router := newStateRouter()

	doState(t, router, http.MethodPut, "/api/state/pr/a", "s", `1`)
	doState(t, router, http.MethodPut, "/api/state/pr/b", "s", `2`)

	rec := doState(t, router, http.MethodDelete, "/api/state/pr/a", "s", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doState(t, router, http.MethodGet, "/api/state/pr", "s", "")
	assert.JSONEq(t, `{"state":{"b":2}}`, rec.Body.String())
}

func TestStateHandlerRequiresSession(t *testing.T) {
	router := newStateRouter()

	rec := doState(t, router, http.MethodGet, "/api/state/ql", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStateHandlerUnknownNamespace(t *testing.T) {
	router := newStateRouter()

	rec := doState(t, router, http.MethodGet, "/api/state/nope", "sess-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStateHandlerRejectsInvalidJSONValue(t *testing.T) {
	router := newStateRouter()

	rec := doState(t, router, http.MethodPut, "/api/state/ql/k", "sess-1", `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStateHandlerSessionsAreIsolated(t *testing.T) {
	router := newStateRouter()

	doState(t, router, http.MethodPut, "/api/state/chat/sessionId", "sess-a", `"abc"`)

	rec := doState(t, router, http.MethodGet, "/api/state/chat", "sess-b", "")
	assert.JSONEq(t, `{"state":{}}`, rec.Body.String())
}
