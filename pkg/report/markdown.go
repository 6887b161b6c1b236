package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/user/netcfg-audit/pkg/engine"
)

// WriteMarkdown renders the report as GitHub-flavoured markdown.
func WriteMarkdown(w io.Writer, r *Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedStamp())
	fmt.Fprintf(&b, "- Devices: %d\n", len(r.Summary))
	fmt.Fprintf(&b, "- Total findings: %d\n", len(r.Findings))

	if r.ExecutiveSummary != "" {
		b.WriteString("\n## Executive Summary\n\n")
		b.WriteString(strings.TrimSpace(r.ExecutiveSummary))
		b.WriteString("\n")
	}

	b.WriteString("\n## Device Risk Summary\n\n")
	writeMarkdownTable(&b, SummaryLayout.Headers(), summaryRows(r.Summary))

	b.WriteString("\n## Risk Distribution\n\n")
	for _, rc := range r.RiskCounts {
		fmt.Fprintf(&b, "- %s: %d devices\n", rc.Score, rc.Count)
	}

	b.WriteString("\n## Findings by Category\n\n")
	for _, cc := range r.CategoryCounts {
		fmt.Fprintf(&b, "- %s: %d findings\n", cc.Category, cc.Count)
	}

	if len(r.Matrix) > 0 {
		b.WriteString("\n## Risk Heatmap\n\n")
		writeMarkdownTable(&b, matrixHeaders(), matrixRows(r.Matrix))
	}

	b.WriteString("\n## Detailed Findings\n")
	if !r.HasFindings() {
		b.WriteString("\n_No findings to report._\n")
	}
	for _, sec := range r.Sections {
		fmt.Fprintf(&b, "\n### %s\n\n", mdEscape(sec.Device))
		writeMarkdownTable(&b, DetailLayout.Headers(), detailRows(sec.Findings))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdownTable(b *strings.Builder, headers []string, rows [][]string) {
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = mdEscape(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func mdEscape(value string) string {
	value = strings.ReplaceAll(value, "\n", "<br>")
	value = strings.ReplaceAll(value, "|", "\\|")
	return value
}

func matrixHeaders() []string {
	out := []string{"Device"}
	for _, c := range engine.Categories() {
		out = append(out, string(c))
	}
	return out
}

func matrixRows(matrix []engine.MatrixRow) [][]string {
	out := make([][]string, 0, len(matrix))
	for _, m := range matrix {
		row := []string{m.Device}
		for _, n := range m.Counts {
			row = append(row, fmt.Sprint(n))
		}
		out = append(out, row)
	}
	return out
}
