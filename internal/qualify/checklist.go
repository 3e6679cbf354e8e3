// Package qualify handles the lead-qualification surface: the editable
// criteria checklist, the normalization used to match criterion text across
// punctuation variants, and the defensive decode of the automation
// service's qualification responses.
package qualify

import "strings"

// DefaultChecklist is the condensed financial underwriting checklist the
// qualification form starts from. Callers may add, remove or edit entries
// before submitting.
var DefaultChecklist = []string{
	"Revenue Growth (Year-over-Year > 5%)",
	"EBITDA Margin ≥ 15%",
	"Debt Service Coverage Ratio (DSCR) ≥ 1.25x",
	"Leverage Ratio (Debt/Equity) ≤ 2.0x",
	"3 Years of Audited Financial Statements Available",
	"Positive Operating Cash Flow for Past 2 Years",
}

var symbolReplacer = strings.NewReplacer(
	"≥", ">=",
	"≤", "<=",
	"×", "x",
)

// NormalizeCriterion canonicalizes a criterion name for matching. The
// automation service echoes criterion text back with inconsistent unicode
// comparison symbols and spacing, so both sides of a lookup go through
// this: lowercase, unicode symbols to ASCII, and whitespace plus
// parentheses and percent signs stripped.
func NormalizeCriterion(s string) string {
	s = strings.ToLower(s)
	s = symbolReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '(', ')', '%':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
