package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractXlsx renders every sheet as CSV, in workbook order, joined with
// newlines. CSV keeps column alignment visible to the automations without
// inventing any layout of our own.
func extractXlsx(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := make([]string, 0, f.SheetCount)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", name, err)
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("render sheet %q: %w", name, err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", fmt.Errorf("render sheet %q: %w", name, err)
		}

		sheets = append(sheets, strings.TrimRight(buf.String(), "\n"))
	}

	return strings.Join(sheets, "\n"), nil
}
