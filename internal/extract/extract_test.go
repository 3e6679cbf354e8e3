package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bbl-digital/sales-enablement-portal/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testLogger() *logging.Logger {
	return logging.New("error")
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDocx(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Company Overview</w:t></w:r></w:p>
    <w:p><w:r><w:t>Revenue:</w:t></w:r><w:r><w:tab/><w:t>120M THB</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := extractDocx(buildDocx(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "Company Overview\nRevenue:\t120M THB", text)
}

func TestExtractDocxMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	require.NoError(t, zw.Close())

	_, err := extractDocx(buf.Bytes())
	assert.Error(t, err)
}

func TestExtractDocxNotAZip(t *testing.T) {
	_, err := extractDocx([]byte("plain text, not a docx"))
	assert.Error(t, err)
}

func TestExtractXlsx(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Item"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Amount"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Loans"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 42))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	text, err := extractXlsx(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Item,Amount\nLoans,42", text)
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	_, err := extractPDF([]byte("not a pdf"))
	assert.Error(t, err)
}

func TestFilesSkipsUnsupportedFormats(t *testing.T) {
	e := New(testLogger())
	e.Register(".txt", func(data []byte) (string, error) {
		return string(data), nil
	})

	text, err := e.Files([]File{
		{Name: "a.txt", Data: []byte("first")},
		{Name: "ignore.png", Data: []byte{0x89}},
		{Name: "b.TXT", Data: []byte("second")},
	})
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond", text)
}

func TestFilesDropsEmptyResults(t *testing.T) {
	e := New(testLogger())
	e.Register(".txt", func(data []byte) (string, error) {
		return strings.TrimSpace(string(data)), nil
	})

	text, err := e.Files([]File{
		{Name: "a.txt", Data: []byte("   ")},
		{Name: "b.txt", Data: []byte("content")},
	})
	require.NoError(t, err)
	assert.Equal(t, "content", text)
}

func TestFilesFailsWholeBatchOnConverterError(t *testing.T) {
	e := New(testLogger())
	e.Register(".txt", func(data []byte) (string, error) {
		return string(data), nil
	})
	e.Register(".bad", func(data []byte) (string, error) {
		return "", errors.New("corrupt")
	})

	_, err := e.Files([]File{
		{Name: "ok.txt", Data: []byte("fine")},
		{Name: "broken.bad", Data: nil},
	})
	assert.Error(t, err)
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		w, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestExtractHandler(t *testing.T) {
	e := New(testLogger())
	e.Register(".txt", func(data []byte) (string, error) {
		return string(data), nil
	})
	h := NewHandler(e, 32<<20, testLogger())

	body, contentType := multipartBody(t, map[string][]byte{"notes.txt": []byte("financials attached")})
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Extract(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"text":"financials attached"}`, rec.Body.String())
}

func TestExtractHandlerConverterFailure(t *testing.T) {
	e := New(testLogger())
	h := NewHandler(e, 32<<20, testLogger())

	body, contentType := multipartBody(t, map[string][]byte{"broken.pdf": []byte("not a pdf")})
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Extract(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"Error parsing uploaded files."}`, rec.Body.String())
}

func TestExtractHandlerRejectsNonMultipart(t *testing.T) {
	h := NewHandler(New(testLogger()), 32<<20, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(`{"files":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Extract(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
