// Package feedback flags suspicious extracted values and records user
// corrections for a future learning mechanism.
package feedback

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/chedr/vault-cli/internal/model"
)

// dateLayouts are the formats a date-ish field value may arrive in.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// DetectAnomalies flags fields whose extracted values look wrong. Exactly
// two heuristics, kept deliberately narrow:
//
//   - a field whose label contains "date" with a value that parses as a
//     calendar date in a year after the current one;
//   - a dollar-string value ("$...") whose magnitude exceeds 1,000,000.
//
// Returns the ids of flagged fields in input order.
func DetectAnomalies(fields []model.ExtractedField) []string {
	var flagged []string
	currentYear := time.Now().Year()

	for _, f := range fields {
		s, ok := f.Value.(string)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(f.Label), "date") {
			if y, ok := parseYear(s); ok && y > currentYear {
				flagged = append(flagged, f.ID)
				continue
			}
		}
		if strings.HasPrefix(s, "$") {
			if amt, ok := parseDollars(s); ok && math.Abs(amt) > 1_000_000 {
				flagged = append(flagged, f.ID)
			}
		}
	}
	return flagged
}

func parseYear(s string) (int, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}

func parseDollars(s string) (float64, bool) {
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
