// Package export renders product recommendations as downloadable PDF
// reports. Markdown from the automation is parsed with goldmark and laid
// out with fpdf; the layout mirrors the on-screen report: a titled header
// followed by the numbered recommendation sections.
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/bbl-digital/sales-enablement-portal/internal/recommend"
)

const reportTitle = "BBL Product Recommendations"

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename builds the download name for a company's report, e.g.
// "Acme_Trading_BBL_Recommendations_2026-08-29.pdf". Anything that is
// not a letter or digit becomes an underscore.
func Filename(company string, now time.Time) string {
	safe := nonAlphanumeric.ReplaceAllString(company, "_")
	return fmt.Sprintf("%s_BBL_Recommendations_%s.pdf", safe, now.Format("2006-01-02"))
}

// Generate renders the recommendation markdown into a complete PDF
// document for the named company.
func Generate(company, markdown string, now time.Time) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, tr(reportTitle), "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 7, tr(company), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "I", 9)
	doc.CellFormat(0, 6, "Generated "+now.Format("2 January 2006"), "", 1, "C", false, 0, "")
	doc.Ln(4)

	sections := recommend.SplitSections(markdown)
	if len(sections) == 0 {
		sections = []string{markdown}
	}
	for _, section := range sections {
		renderMarkdown(doc, tr, section)
		doc.Ln(3)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// renderMarkdown walks the top-level blocks of one markdown chunk and
// draws them. Inline formatting is flattened to plain text; headings,
// paragraphs and list items keep their structure.
func renderMarkdown(doc *fpdf.Fpdf, tr func(string) string, source string) {
	src := []byte(source)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			size := 15.0 - float64(n.Level)
			if size < 10 {
				size = 10
			}
			doc.SetFont("Helvetica", "B", size)
			doc.MultiCell(0, 6, tr(inlineText(n, src)), "", "L", false)
			doc.Ln(1)
		case *ast.List:
			renderList(doc, tr, n, src, 0)
		case *ast.ThematicBreak:
			doc.Ln(2)
		default:
			doc.SetFont("Helvetica", "", 10)
			doc.MultiCell(0, 5, tr(inlineText(node, src)), "", "L", false)
			doc.Ln(1)
		}
	}
}

func renderList(doc *fpdf.Fpdf, tr func(string) string, list *ast.List, src []byte, depth int) {
	indent := float64(depth) * 5
	number := list.Start
	if number == 0 {
		number = 1
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		bullet := "-"
		if list.IsOrdered() {
			bullet = fmt.Sprintf("%d.", number)
			number++
		}

		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				renderList(doc, tr, nested, src, depth+1)
				continue
			}
			doc.SetFont("Helvetica", "", 10)
			doc.SetX(doc.GetX() + indent)
			doc.MultiCell(0, 5, tr(bullet+" "+inlineText(child, src)), "", "L", false)
			bullet = " "
		}
	}
}

// inlineText flattens a block node's inline content to plain text.
func inlineText(node ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.AutoLink:
			b.Write(t.URL(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
