package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/user/netcfg-audit/pkg/engine"
)

var (
	colorHigh   = color.New(color.FgRed, color.Bold)
	colorMedium = color.New(color.FgYellow)
	colorLow    = color.New(color.FgGreen)
	colorNone   = color.New(color.FgWhite)
	colorTitle  = color.New(color.FgCyan, color.Bold)
)

func riskColor(s engine.RiskScore) *color.Color {
	switch s {
	case engine.High:
		return colorHigh
	case engine.Medium:
		return colorMedium
	case engine.Low:
		return colorLow
	default:
		return colorNone
	}
}

// WriteConsole prints the tabular display surface. The coloured risk column
// is always last so escape codes do not skew tabwriter alignment.
func WriteConsole(w io.Writer, r *Report) error {
	var b strings.Builder

	colorTitle.Fprintf(&b, "%s\n", r.Title)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedStamp())

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEVICE\tFINDINGS\tRISK")
	for _, row := range r.Summary {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", row.Device, row.Count, riskColor(row.Score).Sprint(row.Score))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	b.WriteString("\nFindings by category:\n")
	tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, cc := range r.CategoryCounts {
		fmt.Fprintf(tw, "  %s\t%d\n", cc.Category, cc.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Matrix) > 0 {
		b.WriteString("\nHeatmap (findings per category):\n")
		tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, strings.Join(matrixHeaders(), "\t")+"\t")
		for _, row := range matrixRows(r.Matrix) {
			fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if !r.HasFindings() {
		b.WriteString("\nNo findings identified.\n")
	}
	for _, sec := range r.Sections {
		colorTitle.Fprintf(&b, "\n%s\n", sec.Device)
		for _, f := range sec.Findings {
			fmt.Fprintf(&b, "  [%s] %s\n      -> %s\n", f.Category, f.Title, f.Recommendation)
		}
	}

	if r.ExecutiveSummary != "" {
		colorTitle.Fprintf(&b, "\nExecutive Summary\n")
		b.WriteString(strings.TrimSpace(r.ExecutiveSummary) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
