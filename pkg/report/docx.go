package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
	"github.com/gomutex/godocx/wml/stypes"

	"github.com/user/netcfg-audit/pkg/auditerr"
)

// Page geometry in twips, landscape Letter.
const (
	twipsPerInch = 1440

	docxPageW   = 11 * twipsPerInch
	docxPageH   = 17 * twipsPerInch / 2
	docxMarginY = twipsPerInch / 2
	docxMarginX = 3 * twipsPerInch / 10
	docxHdrFtr  = twipsPerInch / 4

	docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DOCX renders the report as a word-processing document. Tables use fixed
// column widths since Word does not honour proportional widths consistently.
func DOCX(r *Report) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, auditerr.E("report.DOCX", auditerr.KindRender, "new document", err)
	}
	landscape(doc)

	w := &docxWriter{doc: doc}
	w.heading(r.Title, 0)
	doc.AddParagraph("Generated: " + r.GeneratedStamp())

	if r.ExecutiveSummary != "" {
		w.heading("Executive Summary", 1)
		for _, p := range strings.Split(strings.TrimSpace(r.ExecutiveSummary), "\n\n") {
			lines(doc.AddEmptyParagraph(), p, false)
		}
	}

	w.heading("Device Risk Summary", 1)
	w.table(SummaryLayout, summaryRows(r.Summary))

	w.heading("Risk Distribution", 1)
	for _, rc := range r.RiskCounts {
		doc.AddParagraph(fmt.Sprintf("%s: %d devices", rc.Score, rc.Count)).Style("ListBullet")
	}

	w.heading("Findings by Category", 1)
	for _, cc := range r.CategoryCounts {
		doc.AddParagraph(fmt.Sprintf("%s: %d findings", cc.Category, cc.Count)).Style("ListBullet")
	}

	doc.AddPageBreak()
	w.heading("Detailed Findings", 1)
	if !r.HasFindings() {
		doc.AddParagraph("No findings to report.")
	}
	for i, sec := range r.Sections {
		w.heading("Device: "+sec.Device, 2)
		w.table(DetailLayout, detailRows(sec.Findings))
		if PageBreakAfter(i, len(r.Sections)) {
			doc.AddPageBreak()
		}
	}
	if w.err != nil {
		return nil, auditerr.E("report.DOCX", auditerr.KindRender, "heading", w.err)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, auditerr.E("report.DOCX", auditerr.KindRender, "write package", err)
	}
	return buf.Bytes(), nil
}

// landscape replaces the template's portrait section with landscape Letter
// and narrow margins.
func landscape(doc *docx.RootDoc) {
	body := doc.Document.Body
	if body.SectPr == nil {
		body.SectPr = ctypes.NewSectionProper()
	}
	pageW, pageH := uint64(docxPageW), uint64(docxPageH)
	body.SectPr.PageSize = &ctypes.PageSize{Width: &pageW, Height: &pageH, Orient: stypes.PageOrientLandscape}

	x, y, hf, gutter := docxMarginX, docxMarginY, docxHdrFtr, 0
	body.SectPr.PageMargin = &ctypes.PageMargin{
		Left: &x, Right: &x, Top: &y, Bottom: &y,
		Header: &hf, Footer: &hf, Gutter: &gutter,
	}
}

type docxWriter struct {
	doc *docx.RootDoc
	err error
}

func (w *docxWriter) heading(text string, level uint) {
	if w.err != nil {
		return
	}
	_, w.err = w.doc.AddHeading(text, level)
}

func (w *docxWriter) table(l Layout, rows [][]string) {
	widths := l.Twips()
	total := 0
	grid := make([]uint64, len(widths))
	for i, tw := range widths {
		total += tw
		grid[i] = uint64(tw)
	}

	tbl := w.doc.AddTable()
	tbl.Style("TableGrid")
	tbl.Width(total, stypes.TableWidthDxa).Layout(stypes.TableLayoutFixed).Grid(grid...)

	tableRow(tbl, widths, l.Headers(), true)
	for _, cells := range rows {
		tableRow(tbl, widths, cells, false)
	}
	// Word requires a paragraph between adjacent tables.
	w.doc.AddEmptyParagraph()
}

func tableRow(tbl *docx.Table, widths []int, cells []string, header bool) {
	row := tbl.AddRow()
	if header {
		ct := tbl.GetCT()
		ct.RowContents[len(ct.RowContents)-1].Row.Property.Header = &ctypes.OnOff{}
	}
	for i, c := range cells {
		cell := row.AddCell().Width(widths[i], stypes.TableWidthDxa)
		lines(cell.AddEmptyPara(), c, header)
	}
}

// lines writes text into p keeping embedded newlines as line breaks.
func lines(p *docx.Paragraph, text string, bold bool) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			p.AddRun().AddBreak(nil)
		}
		run := p.AddText(line)
		if bold {
			run.Bold(true)
		}
	}
}
