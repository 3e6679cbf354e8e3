// Package recommend handles the product-recommendation surface: relaying
// requests to the automation webhook, normalizing its loosely-typed
// responses into a canonical bilingual document, and splitting that
// document into numbered sections.
package recommend

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Bilingual is the canonical recommendation result. Both fields hold a
// markdown document of numbered sections.
type Bilingual struct {
	English string `json:"output_EN"`
	Thai    string `json:"output_TH"`
}

type outputEnvelope struct {
	Output string `json:"output"`
}

// Normalize reconciles the upstream response shapes into a Bilingual
// result. The fallback order is a contract, not an accident of code:
//
//  1. a JSON array of exactly two objects with an "output" field maps
//     element 0 to Thai and element 1 to English;
//  2. a single JSON object with an "output" field duplicates that value
//     into both slots;
//  3. anything else, including unparseable text, duplicates the raw
//     response into both slots byte-for-byte.
//
// The upstream automation has changed its response shape across versions;
// callers degrade gracefully instead of crashing because every one of them
// goes through this chain.
func Normalize(raw string) Bilingual {
	var arr []outputEnvelope
	if err := json.Unmarshal([]byte(raw), &arr); err == nil && len(arr) == 2 {
		return Bilingual{Thai: arr[0].Output, English: arr[1].Output}
	}

	var obj outputEnvelope
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && obj.Output != "" {
		return Bilingual{English: obj.Output, Thai: obj.Output}
	}

	return Bilingual{English: raw, Thai: raw}
}

var sectionHeader = regexp.MustCompile(`\n##\s*(?:[1-9]|10)\.\s+`)

// SplitSections splits a recommendation document on its top-level numbered
// headers ("## 1." through "## 10."). A document without numbered headers
// is returned as a single section.
func SplitSections(markdown string) []string {
	locs := sectionHeader.FindAllStringIndex(markdown, -1)
	if len(locs) == 0 {
		return []string{markdown}
	}

	var sections []string
	prev := 0
	for _, loc := range locs {
		if chunk := strings.TrimSpace(markdown[prev:loc[0]]); chunk != "" {
			sections = append(sections, chunk)
		}
		prev = loc[0]
	}
	if chunk := strings.TrimSpace(markdown[prev:]); chunk != "" {
		sections = append(sections, chunk)
	}
	return sections
}
