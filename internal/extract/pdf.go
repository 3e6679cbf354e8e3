package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF pulls the text content out of every page. Text items on a
// page are joined with spaces, pages with newlines, matching how the
// automation prompts expect pasted document text to look.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content := page.Content()
		items := make([]string, 0, len(content.Text))
		for _, txt := range content.Text {
			items = append(items, txt.S)
		}
		pages = append(pages, strings.Join(items, " "))
	}

	return strings.Join(pages, "\n"), nil
}
