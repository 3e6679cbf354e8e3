package qualify

import (
	"encoding/json"
	"errors"
)

// Criterion is one evaluated checklist row as returned by the automation
// service. Field names match the upstream payload exactly.
type Criterion struct {
	Name      string `json:"Name"`
	Pass      bool   `json:"Pass"`
	Reasoning string `json:"Reasoning"`
}

// Result is a decoded qualification response: the evaluated rows in
// upstream insertion order plus a free-text company overview. Absent
// fields decode to blanks, never to an error.
type Result struct {
	Overview string
	Criteria []Criterion
}

type qualifyOutput struct {
	CompanyOverview string      `json:"Company Overview"`
	LineItems       []Criterion `json:"Line Items"`
}

type qualifyEnvelope struct {
	Output qualifyOutput `json:"output"`
}

// ErrInvalidResponse marks a response body that is not the expected
// single-element envelope array.
var ErrInvalidResponse = errors.New("qualify: invalid response format from backend")

// Decode parses the current qualification response shape:
//
//	[{"output":{"Company Overview": "...", "Line Items": [...]}}]
//
// Rows keep upstream order; a missing overview or item list yields empty
// values rather than an error.
func Decode(raw string) (Result, error) {
	var envelopes []qualifyEnvelope
	if err := json.Unmarshal([]byte(raw), &envelopes); err != nil {
		return Result{}, ErrInvalidResponse
	}
	if len(envelopes) == 0 {
		return Result{}, nil
	}

	out := envelopes[0].Output
	return Result{
		Overview: out.CompanyOverview,
		Criteria: out.LineItems,
	}, nil
}

// LegacyResult is a row from the older response shape, keyed by the
// literal checklist text.
type LegacyResult struct {
	Status    string `json:"status"`
	Reasoning string `json:"reasoning"`
}

// MapKeyed resolves an older deployment's response shape, where each of a
// fixed checklist maps to a per-item result keyed by the criterion text.
// Keys on both sides are normalized before matching, so "EBITDA Margin ≥
// 15%" and "ebitda margin >= 15" resolve to the same row. Criteria with no
// matching result come back with blank status and reasoning.
func MapKeyed(checklist []string, keyed map[string]LegacyResult) []Criterion {
	index := make(map[string]LegacyResult, len(keyed))
	for k, v := range keyed {
		index[NormalizeCriterion(k)] = v
	}

	out := make([]Criterion, 0, len(checklist))
	for _, item := range checklist {
		res := index[NormalizeCriterion(item)]
		out = append(out, Criterion{
			Name:      item,
			Pass:      res.Status == "Pass" || res.Status == "true",
			Reasoning: res.Reasoning,
		})
	}
	return out
}
