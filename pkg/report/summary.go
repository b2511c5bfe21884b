package report

import (
	"github.com/dustin/go-humanize"

	"github.com/macropower/adcheck/pkg/engine"
)

// Summary counts the results of one directive across a fleet.
type Summary struct {
	DirectiveID   string `json:"ad_id"`
	Affected      int    `json:"affected"`
	NotAffected   int    `json:"not_affected"`
	NotApplicable int    `json:"not_applicable"`
	Total         int    `json:"total"`
}

// Summarize counts the results of every directive, in directive order.
func Summarize(fleet *engine.Fleet) []Summary {
	ids := fleet.DirectiveIDs()

	summaries := make([]Summary, len(ids))
	for i, id := range ids {
		summaries[i].DirectiveID = id
	}

	for _, results := range fleet.All() {
		for i, r := range results {
			s := &summaries[i]
			s.Total++

			switch r.Status {
			case engine.StatusAffected:
				s.Affected++
			case engine.StatusNotAffected:
				s.NotAffected++
			case engine.StatusNotApplicable:
				s.NotApplicable++
			}
		}
	}

	return summaries
}

// Ratio formats n out of the summary total, e.g. "1,204/2,000 (60.2%)".
func (s Summary) Ratio(n int) string {
	ratio := humanize.Comma(int64(n)) + "/" + humanize.Comma(int64(s.Total))
	if s.Total == 0 {
		return ratio
	}

	pct := float64(n) / float64(s.Total) * 100

	return ratio + " (" + humanize.FtoaWithDigits(pct, 1) + "%)"
}
