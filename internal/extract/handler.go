package extract

import (
	"io"
	"net/http"

	"github.com/bbl-digital/sales-enablement-portal/internal/relay"
	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
)

// parseFailureMessage is shown verbatim in the UI, keep it stable.
const parseFailureMessage = "Error parsing uploaded files."

// Handler accepts multipart uploads and returns their combined text.
type Handler struct {
	extractor *Extractor
	maxBytes  int64
	logger    *logging.Logger
}

// NewHandler creates an upload handler. maxBytes bounds the whole
// multipart request.
func NewHandler(extractor *Extractor, maxBytes int64, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{extractor: extractor, maxBytes: maxBytes, logger: logger}
}

// Extract handles POST /api/extract. Documents arrive under the "files"
// multipart field; the response carries the concatenated text of every
// supported file.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		h.logger.Warn("extract: bad multipart request", "error", err)
		relay.WriteError(w, http.StatusUnprocessableEntity, parseFailureMessage)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	headers := r.MultipartForm.File["files"]
	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		part, err := fh.Open()
		if err != nil {
			relay.WriteError(w, http.StatusUnprocessableEntity, parseFailureMessage)
			return
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			relay.WriteError(w, http.StatusUnprocessableEntity, parseFailureMessage)
			return
		}
		files = append(files, File{Name: fh.Filename, Data: data})
	}

	text, err := h.extractor.Files(files)
	if err != nil {
		relay.WriteError(w, http.StatusUnprocessableEntity, parseFailureMessage)
		return
	}

	relay.WriteJSON(w, http.StatusOK, map[string]string{"text": text})
}
