// Package extract converts uploaded office documents into plain text for
// the automation webhooks. Converters are registered per file extension;
// formats without a converter contribute nothing, while a converter
// failure aborts the whole batch so no partial text is ever submitted.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bbl-digital/sales-enablement-portal/internal/observability/metrics"
	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
)

// File is one uploaded document.
type File struct {
	Name string
	Data []byte
}

// Func converts one document into plain text.
type Func func(data []byte) (string, error)

// Extractor dispatches uploads to per-format converters.
type Extractor struct {
	converters map[string]Func
	logger     *logging.Logger
	metrics    *metrics.RelayMetrics
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMetrics records per-document extraction counters.
func WithMetrics(m *metrics.RelayMetrics) Option {
	return func(e *Extractor) {
		e.metrics = m
	}
}

// New creates an Extractor with the built-in PDF, Word and spreadsheet
// converters registered.
func New(logger *logging.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	e := &Extractor{
		converters: map[string]Func{
			".pdf":  extractPDF,
			".docx": extractDocx,
			".xlsx": extractXlsx,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds or replaces the converter for an extension. New formats
// plug in here without touching any call site.
func (e *Extractor) Register(ext string, fn Func) {
	e.converters[strings.ToLower(ext)] = fn
}

// Files converts a batch of uploads in input order and concatenates the
// non-empty results with a blank-line separator. Files with no registered
// converter are silently skipped; the first converter failure fails the
// whole batch.
func (e *Extractor) Files(files []File) (string, error) {
	results := make([]string, 0, len(files))
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		fn, ok := e.converters[ext]
		if !ok {
			e.logger.Debug("skipping unsupported upload", "name", f.Name)
			continue
		}

		format := strings.TrimPrefix(ext, ".")
		text, err := fn(f.Data)
		if err != nil {
			e.metrics.ObserveExtract(format, "error")
			e.logger.Error("document extraction failed", "name", f.Name, "error", err)
			return "", fmt.Errorf("extract %s: %w", f.Name, err)
		}
		e.metrics.ObserveExtract(format, "ok")

		if text != "" {
			results = append(results, text)
		}
	}
	return strings.Join(results, "\n\n"), nil
}
