package ledger

import (
	"katha/internal/core"
)

const displayDate = "Mon, 2 Jan 2006"

// Highlight is one line of the insights panel.
type Highlight struct {
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Caption string `json:"caption,omitempty"`
}

// Highlights renders the insights as display lines, in panel order.
// Entries pointing at an unknown katha get an empty caption.
func (in Insights) Highlights(kathas []core.Katha) []Highlight {
	out := make([]Highlight, 0, 5)
	if e := in.LargestContribution; e != nil {
		out = append(out, Highlight{
			Title:   "Largest contribution",
			Detail:  core.FormatINR(e.Amount.Cents) + " on " + formatDay(e.Date),
			Caption: KathaName(kathas, e.KathaID),
		})
	}
	if e := in.LargestPayout; e != nil {
		out = append(out, Highlight{
			Title:   "Largest payout",
			Detail:  core.FormatINR(e.Amount.Cents) + " for " + e.Category,
			Caption: formatDay(e.Date),
		})
	}
	if d := in.BusiestDay; d != nil {
		detail := d.Date
		if parsed, err := core.ParseDate(d.Date); err == nil {
			detail = formatDay(parsed)
		}
		out = append(out, Highlight{
			Title:   "Busiest cashflow day",
			Detail:  detail,
			Caption: "Net impact: " + core.FormatINR(d.Net.Cents),
		})
	}
	if c := in.StandoutCategory; c != nil {
		out = append(out, Highlight{
			Title:   "Standout category",
			Detail:  c.Category,
			Caption: "Net cashflow: " + core.FormatINR(c.Net.Cents),
		})
	}
	if h := in.HealthiestKatha; h != nil {
		out = append(out, Highlight{
			Title:   "Healthiest katha balance",
			Detail:  h.Katha.Name,
			Caption: "Net balance: " + core.FormatINR(h.Balance.Cents),
		})
	}
	return out
}

func formatDay(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(displayDate)
}
