package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/user/netcfg-audit/pkg/engine"
)

var (
	FindingsHeader = []string{"Finding", "File", "RiskDesc", "Recommendation", "Category"}
	SummaryHeader  = []string{"Device", "Findings Count", "Risk Score"}
)

// WriteFindingsCSV writes one row per finding, header first.
func WriteFindingsCSV(w io.Writer, findings []engine.Finding) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FindingsHeader); err != nil {
		return err
	}
	for _, f := range findings {
		if err := cw.Write([]string{f.Title, f.Device, f.RiskDesc, f.Recommendation, string(f.Category)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes one row per device, header first.
func WriteSummaryCSV(w io.Writer, rows []engine.DeviceSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Device, strconv.Itoa(row.Count), string(row.Score)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
