package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/netcfg-audit/pkg/auditerr"
)

// Default artifact names.
const (
	FindingsCSVName = "network_detailed_findings.csv"
	SummaryCSVName  = "network_device_summary.csv"
	PDFName         = "network_audit_report.pdf"
	DOCXName        = "network_audit_report.docx"
	MarkdownName    = "network_audit_report.md"
)

// Artifact is one named, typed output blob.
type Artifact struct {
	Name string
	MIME string
	Data []byte
}

type Format string

const (
	FormatCSV      Format = "csv"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatMarkdown Format = "md"
)

// Formats lists every supported format in generation order.
func Formats() []Format {
	return []Format{FormatCSV, FormatPDF, FormatDOCX, FormatMarkdown}
}

// ParseFormats accepts comma separated and repeated values, dropping
// duplicates and keeping first-seen order.
func ParseFormats(values []string) ([]Format, error) {
	seen := map[Format]bool{}
	var out []Format
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			name := strings.ToLower(strings.TrimSpace(part))
			if name == "" {
				continue
			}
			if name == "markdown" {
				name = string(FormatMarkdown)
			}
			f := Format(name)
			switch f {
			case FormatCSV, FormatPDF, FormatDOCX, FormatMarkdown:
			default:
				return nil, auditerr.E("report.ParseFormats", auditerr.KindConfig, fmt.Sprintf("unknown format %q", part), nil)
			}
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// Generate renders every requested format. A failing format is reported in
// errs and does not prevent the others from being produced.
func Generate(r *Report, formats []Format) (arts []Artifact, errs []error) {
	for _, f := range formats {
		switch f {
		case FormatCSV:
			var findings, summary bytes.Buffer
			if err := WriteFindingsCSV(&findings, r.Findings); err != nil {
				errs = append(errs, auditerr.E("report.Generate", auditerr.KindRender, FindingsCSVName, err))
			} else {
				arts = append(arts, Artifact{Name: FindingsCSVName, MIME: "text/csv", Data: findings.Bytes()})
			}
			if err := WriteSummaryCSV(&summary, r.Summary); err != nil {
				errs = append(errs, auditerr.E("report.Generate", auditerr.KindRender, SummaryCSVName, err))
			} else {
				arts = append(arts, Artifact{Name: SummaryCSVName, MIME: "text/csv", Data: summary.Bytes()})
			}
		case FormatPDF:
			data, err := PDF(r)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			arts = append(arts, Artifact{Name: PDFName, MIME: "application/pdf", Data: data})
		case FormatDOCX:
			data, err := DOCX(r)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			arts = append(arts, Artifact{Name: DOCXName, MIME: docxMIME, Data: data})
		case FormatMarkdown:
			var buf bytes.Buffer
			if err := WriteMarkdown(&buf, r); err != nil {
				errs = append(errs, auditerr.E("report.Generate", auditerr.KindRender, MarkdownName, err))
				continue
			}
			arts = append(arts, Artifact{Name: MarkdownName, MIME: "text/markdown", Data: buf.Bytes()})
		}
	}
	return arts, errs
}

// Save writes artifacts into dir and returns the written paths.
func Save(dir string, arts []Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(arts))
	for _, a := range arts {
		p := filepath.Join(dir, a.Name)
		if err := os.WriteFile(p, a.Data, 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", a.Name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
