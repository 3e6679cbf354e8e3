package export

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)

func TestFilename(t *testing.T) {
	cases := []struct {
		company string
		want    string
	}{
		{"Acme Trading", "Acme_Trading_BBL_Recommendations_2026-08-29.pdf"},
		{"Siam F&B Co., Ltd.", "Siam_F_B_Co___Ltd__BBL_Recommendations_2026-08-29.pdf"},
		{"PlainCo", "PlainCo_BBL_Recommendations_2026-08-29.pdf"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Filename(tc.company, fixedTime))
	}
}

const sampleMarkdown = `## 1. Working Capital Loan

A revolving credit line sized to the company's cash conversion cycle.

- Limit: up to 50M THB
- Tenor: 12 months

## 2. Trade Finance

Letters of credit and trust receipts for import volumes.
`

func TestGenerateProducesPDF(t *testing.T) {
	data, err := Generate("Acme Trading", sampleMarkdown, fixedTime)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Greater(t, len(data), 1000)
}

func TestGenerateHandlesPlainText(t *testing.T) {
	data, err := Generate("Acme", "No markdown headers here, just prose.", fixedTime)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func newTestHandler() *Handler {
	return NewHandler(logging.New("error"), WithClock(func() time.Time { return fixedTime }))
}

func TestExportHandler(t *testing.T) {
	body := map[string]any{
		"companyName": "Acme Trading",
		"recommendations": map[string]string{
			"output_EN": sampleMarkdown,
			"output_TH": "## 1. Thai version",
		},
		"thaiLanguage": false,
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/product-recs/export", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	newTestHandler().Export(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t,
		`attachment; filename="Acme_Trading_BBL_Recommendations_2026-08-29.pdf"`,
		rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestExportHandlerRequiresCompanyAndContent(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/product-recs/export",
		strings.NewReader(`{"companyName":"","recommendations":{"output_EN":""}}`))
	rec := httptest.NewRecorder()
	newTestHandler().Export(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/product-recs/export", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	newTestHandler().Export(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
}
