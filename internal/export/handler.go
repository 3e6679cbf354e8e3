package export

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bbl-digital/sales-enablement-portal/internal/observability/metrics"
	"github.com/bbl-digital/sales-enablement-portal/internal/recommend"
	"github.com/bbl-digital/sales-enablement-portal/internal/relay"
	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
)

// generateFailureMessage is shown verbatim in the UI, keep it stable.
const generateFailureMessage = "Failed to generate PDF. Please try again."

// Request is the export payload: the company the report is for, the
// bilingual recommendation text, and which language to render.
type Request struct {
	CompanyName     string              `json:"companyName"`
	Recommendations recommend.Bilingual `json:"recommendations"`
	ThaiLanguage    bool                `json:"thaiLanguage"`
}

// Handler turns recommendation markdown into a PDF download.
type Handler struct {
	logger  *logging.Logger
	metrics *metrics.RelayMetrics
	now     func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics counts generated reports.
func WithMetrics(m *metrics.RelayMetrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// NewHandler creates an export handler.
func NewHandler(logger *logging.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handler{logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Export handles POST /api/product-recs/export and streams back the
// generated report as an attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		relay.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content := req.Recommendations.English
	if req.ThaiLanguage {
		content = req.Recommendations.Thai
	}
	if req.CompanyName == "" || content == "" {
		relay.WriteError(w, http.StatusBadRequest, "companyName and recommendations are required")
		return
	}

	now := h.now()
	data, err := Generate(req.CompanyName, content, now)
	if err != nil {
		h.logger.Error("export: pdf generation failed", "company", req.CompanyName, "error", err)
		relay.WriteError(w, http.StatusInternalServerError, generateFailureMessage)
		return
	}
	h.metrics.ObservePDFExport()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(req.CompanyName, now)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
