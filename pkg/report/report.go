package report

import (
	"strconv"
	"time"

	"github.com/user/netcfg-audit/pkg/engine"
)

const DefaultTitle = "Network Configuration Audit Report"

// RiskCount is the number of devices in one risk bucket.
type RiskCount struct {
	Score engine.RiskScore
	Count int
}

// DeviceSection is the detail block for one device with findings.
type DeviceSection struct {
	Device   string
	Findings []engine.Finding
}

// Report is the presentation model every renderer consumes.
type Report struct {
	Title            string
	Generated        time.Time
	Summary          []engine.DeviceSummary
	RiskCounts       []RiskCount
	CategoryCounts   []engine.CategoryCount
	Matrix           []engine.MatrixRow
	Sections         []DeviceSection
	Findings         []engine.Finding
	ExecutiveSummary string
}

// Build assembles the report model from a finished batch.
func Build(batch *engine.Batch, title string, generated time.Time) *Report {
	if title == "" {
		title = DefaultTitle
	}
	r := &Report{
		Title:          title,
		Generated:      generated.UTC(),
		Summary:        batch.Summary(),
		CategoryCounts: batch.CategoryCounts(),
		Matrix:         batch.Matrix(),
		Findings:       batch.Findings(),
	}

	dist := batch.RiskDistribution()
	for _, lvl := range engine.RiskLevels() {
		r.RiskCounts = append(r.RiskCounts, RiskCount{Score: lvl, Count: dist[lvl]})
	}

	for _, d := range batch.Devices() {
		fs := batch.DeviceFindings(d)
		if len(fs) == 0 {
			continue
		}
		r.Sections = append(r.Sections, DeviceSection{Device: d, Findings: fs})
	}
	return r
}

// HasFindings distinguishes a clean run from one with findings.
func (r *Report) HasFindings() bool {
	return len(r.Findings) > 0
}

// GeneratedStamp is the UTC generation time as printed in documents.
func (r *Report) GeneratedStamp() string {
	return r.Generated.Format("2006-01-02 15:04:05Z")
}

func summaryRows(rows []engine.DeviceSummary) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{row.Device, strconv.Itoa(row.Count), string(row.Score)})
	}
	return out
}

func detailRows(fs []engine.Finding) [][]string {
	out := make([][]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, []string{string(f.Category), f.Title, f.RiskDesc, f.Recommendation})
	}
	return out
}
