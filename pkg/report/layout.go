package report

// Column is one column of a report table. Weight is its share of the usable
// page width on surfaces that can query it (PDF); Inches is the absolute
// width used where the surface cannot (DOCX).
type Column struct {
	Header string
	Weight float64
	Inches float64
}

// Layout is a table's column set, shared by every renderer.
type Layout struct {
	Columns []Column
}

var (
	// SummaryLayout keeps the device column dominant: device names are often
	// full archive paths and are wrapped, never truncated.
	SummaryLayout = Layout{Columns: []Column{
		{Header: "Device", Weight: 0.70, Inches: 6.0},
		{Header: "Findings Count", Weight: 0.15, Inches: 1.5},
		{Header: "Risk Score", Weight: 0.15, Inches: 1.5},
	}}

	DetailLayout = Layout{Columns: []Column{
		{Header: "Category", Weight: 0.15, Inches: 1.2},
		{Header: "Finding", Weight: 0.20, Inches: 2.0},
		{Header: "Risk Description", Weight: 0.30, Inches: 3.0},
		{Header: "Recommendation", Weight: 0.35, Inches: 3.0},
	}}
)

// DevicesPerPage bounds how many device detail tables share a page.
const DevicesPerPage = 2

func (l Layout) Headers() []string {
	out := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		out[i] = c.Header
	}
	return out
}

// Widths splits total (in any unit) by the column weights.
func (l Layout) Widths(total float64) []float64 {
	out := make([]float64, len(l.Columns))
	for i, c := range l.Columns {
		out[i] = total * c.Weight
	}
	return out
}

// Twips returns the fixed column widths in twentieths of a point.
func (l Layout) Twips() []int {
	out := make([]int, len(l.Columns))
	for i, c := range l.Columns {
		out[i] = int(c.Inches*1440 + 0.5)
	}
	return out
}

// PageBreakAfter reports whether a forced page break follows device section i
// (0-based) of n: after every DevicesPerPage-th section except the last.
func PageBreakAfter(i, n int) bool {
	return (i+1)%DevicesPerPage == 0 && i+1 < n
}
