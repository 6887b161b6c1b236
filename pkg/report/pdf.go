package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/user/netcfg-audit/pkg/auditerr"
	"github.com/user/netcfg-audit/pkg/engine"
)

const (
	inch = 72.0 // document unit is the point

	marginX = 0.3 * inch
	marginY = 0.4 * inch
	cellPad = 3.0

	riskChartW, riskChartH         = 7 * inch, 3.5 * inch
	categoryChartW, categoryChartH = 8 * inch, 4 * inch
)

type rgb struct{ r, g, b int }

var (
	black       = rgb{0, 0, 0}
	white       = rgb{255, 255, 255}
	darkBlue    = rgb{0, 0, 139}
	summaryHead = rgb{0x4C, 0xAF, 0x50}
	detailHead  = rgb{0x21, 0x96, 0xF3}
	beige       = rgb{245, 245, 220}
	lightGrey   = rgb{211, 211, 211}
	heatLow     = rgb{26, 152, 80}
	heatMid     = rgb{254, 224, 139}
	heatHigh    = rgb{215, 48, 39}
)

// Chart renderers; swapped in tests to exercise render failures.
var (
	renderRiskChart     = RiskChartPNG
	renderCategoryChart = CategoryChartPNG
)

type pdfTable struct {
	layout     Layout
	headerFill rgb
	bodyFill   rgb
	align      []string
	fontSize   float64
	headerSize float64
	// cellFill overrides bodyFill for individual body cells.
	cellFill func(row, col int) (rgb, bool)
}

type pdfDoc struct {
	pdf   *fpdf.Fpdf
	cp    func(string) string
	width float64
	pageH float64
}

// PDF renders the landscape management report. Any chart or document error
// aborts this artifact only.
func PDF(r *Report) ([]byte, error) {
	riskPNG, err := renderRiskChart(r.RiskCounts)
	if err != nil {
		return nil, auditerr.E("report.PDF", auditerr.KindRender, "risk chart", err)
	}
	categoryPNG, err := renderCategoryChart(r.CategoryCounts)
	if err != nil {
		return nil, auditerr.E("report.PDF", auditerr.KindRender, "category chart", err)
	}

	pdf := fpdf.New("L", "pt", "Letter", "")
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)
	pdf.SetCellMargin(cellPad)
	pdf.SetTitle(r.Title, true)
	pdf.SetCreator("netcfg-audit", true)
	pdf.SetCreationDate(r.Generated)
	pdf.AliasNbPages("")

	pageW, pageH := pdf.GetPageSize()
	d := &pdfDoc{
		pdf:   pdf,
		cp:    pdf.UnicodeTranslatorFromDescriptor(""),
		width: pageW - 2*marginX,
		pageH: pageH,
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-marginY + 8)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetTextColor(black.r, black.g, black.b)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Title block
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 22, d.tr(r.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(0, 10, "Generated: "+r.GeneratedStamp(), "", 1, "L", false, 0, "")
	pdf.Ln(15)

	if r.ExecutiveSummary != "" {
		d.heading("Executive Summary", 12, black)
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 11, d.tr(r.ExecutiveSummary), "", "L", false)
		pdf.Ln(12)
	}

	d.heading("Device Risk Summary", 12, black)
	d.table(pdfTable{
		layout:     SummaryLayout,
		headerFill: summaryHead,
		bodyFill:   beige,
		align:      []string{"L", "C", "C"},
		fontSize:   8,
		headerSize: 9,
	}, summaryRows(r.Summary))
	pdf.Ln(20)

	d.heading("Risk Distribution (Devices by Risk Level)", 12, black)
	d.image("risk-distribution", riskPNG, riskChartW, riskChartH)
	pdf.Ln(20)

	d.heading("Findings by Category", 12, black)
	d.image("category-distribution", categoryPNG, categoryChartW, categoryChartH)

	if len(r.Matrix) > 0 {
		pdf.AddPage()
		d.heading("Risk Heatmap per Category (device = row)", 12, black)
		d.heatmap(r.Matrix)
	}

	pdf.AddPage()
	d.heading("Detailed Findings", 12, black)
	if !r.HasFindings() {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(0, 10, "No findings to report.", "", 1, "L", false, 0, "")
	}
	for i, sec := range r.Sections {
		d.heading("Device: "+sec.Device, 10, darkBlue)
		pdf.Ln(4)
		d.table(pdfTable{
			layout:     DetailLayout,
			headerFill: detailHead,
			bodyFill:   lightGrey,
			align:      []string{"L", "L", "L", "L"},
			fontSize:   7,
			headerSize: 7,
		}, detailRows(sec.Findings))
		pdf.Ln(15)

		if PageBreakAfter(i, len(r.Sections)) {
			pdf.AddPage()
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, auditerr.E("report.PDF", auditerr.KindRender, "write document", err)
	}
	return buf.Bytes(), nil
}

func (d *pdfDoc) remaining() float64 {
	return d.pageH - marginY - d.pdf.GetY()
}

func (d *pdfDoc) ensure(h float64) {
	if d.remaining() < h {
		d.pdf.AddPage()
	}
}

func (d *pdfDoc) heading(text string, size float64, c rgb) {
	d.ensure(size * 4)
	d.pdf.SetFont("Helvetica", "B", size)
	d.pdf.SetTextColor(c.r, c.g, c.b)
	d.pdf.MultiCell(0, size*1.3, d.tr(text), "", "L", false)
	d.pdf.SetTextColor(black.r, black.g, black.b)
	d.pdf.Ln(size * 0.5)
}

func (d *pdfDoc) image(name string, png []byte, w, h float64) {
	d.ensure(h)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	x := (d.width-w)/2 + marginX
	y := d.pdf.GetY()
	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	d.pdf.SetY(y + h)
}

// tr converts s to the core fonts' cp1252 encoding.
func (d *pdfDoc) tr(s string) string {
	return d.cp(latinSafe(s))
}

// latinSafe spells out runes cp1252 cannot carry as U+XXXX so that device
// names in other scripts stay distinct in the PDF.
func latinSafe(s string) string {
	var b strings.Builder
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteRune(r)
			continue
		}
		fmt.Fprintf(&b, "U+%04X", r)
	}
	return b.String()
}

// split wraps s to width w. The translated text is one byte per glyph, which
// SplitText only measures correctly when each byte is its own rune.
func (d *pdfDoc) split(s string, w float64) []string {
	cp := d.tr(s)
	runes := make([]rune, len(cp))
	for i := 0; i < len(cp); i++ {
		runes[i] = rune(cp[i])
	}
	lines := d.pdf.SplitText(string(runes), w)
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		b := make([]byte, 0, len(ln))
		for _, r := range ln {
			b = append(b, byte(r))
		}
		out = append(out, string(b))
	}
	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}

// table draws rows with wrapped cells, repeating the header on every page.
func (d *pdfDoc) table(t pdfTable, rows [][]string) {
	widths := t.layout.Widths(d.width)
	header := func() {
		d.pdf.SetFont("Helvetica", "B", t.headerSize)
		d.row(widths, t.layout.Headers(), t.headerSize, func(int) rgb { return t.headerFill }, white, centered(len(widths)))
	}

	header()
	for i, cells := range rows {
		d.pdf.SetFont("Helvetica", "", t.fontSize)
		if d.remaining() < d.rowHeight(widths, cells, t.fontSize) {
			d.pdf.AddPage()
			header()
			d.pdf.SetFont("Helvetica", "", t.fontSize)
		}
		fill := func(col int) rgb {
			if t.cellFill != nil {
				if c, ok := t.cellFill(i, col); ok {
					return c
				}
			}
			return t.bodyFill
		}
		d.row(widths, cells, t.fontSize, fill, black, t.align)
	}
}

func (d *pdfDoc) rowHeight(widths []float64, cells []string, size float64) float64 {
	most := 1
	for i, c := range cells {
		if n := len(d.split(c, widths[i])); n > most {
			most = n
		}
	}
	return float64(most)*size*1.2 + 2*cellPad
}

func (d *pdfDoc) row(widths []float64, cells []string, size float64, fill func(int) rgb, text rgb, align []string) {
	lineH := size * 1.2
	h := d.rowHeight(widths, cells, size)
	x, y := marginX, d.pdf.GetY()

	d.pdf.SetDrawColor(128, 128, 128)
	d.pdf.SetLineWidth(0.5)
	d.pdf.SetTextColor(text.r, text.g, text.b)
	for i, c := range cells {
		f := fill(i)
		d.pdf.SetFillColor(f.r, f.g, f.b)
		d.pdf.Rect(x, y, widths[i], h, "FD")
		for j, ln := range d.split(c, widths[i]) {
			tx := x + cellPad
			if align[i] == "C" {
				tx = x + (widths[i]-d.pdf.GetStringWidth(ln))/2
			}
			d.pdf.Text(tx, y+cellPad+float64(j)*lineH+size, ln)
		}
		x += widths[i]
	}
	d.pdf.SetTextColor(black.r, black.g, black.b)
	d.pdf.SetXY(marginX, y+h)
}

func (d *pdfDoc) heatmap(matrix []engine.MatrixRow) {
	cats := engine.Categories()
	cols := make([]Column, 0, len(cats)+1)
	cols = append(cols, Column{Header: "Device", Weight: 0.30})
	for _, c := range cats {
		cols = append(cols, Column{Header: string(c), Weight: 0.70 / float64(len(cats))})
	}

	top := 0
	rows := make([][]string, 0, len(matrix))
	for _, m := range matrix {
		cells := []string{m.Device}
		for _, n := range m.Counts {
			cells = append(cells, strconv.Itoa(n))
			if n > top {
				top = n
			}
		}
		rows = append(rows, cells)
	}

	align := centered(len(cols))
	align[0] = "L"
	d.table(pdfTable{
		layout:     Layout{Columns: cols},
		headerFill: darkBlue,
		bodyFill:   white,
		align:      align,
		fontSize:   8,
		headerSize: 8,
		cellFill: func(row, col int) (rgb, bool) {
			if col == 0 {
				return rgb{}, false
			}
			return heatColor(matrix[row].Counts[col-1], top), true
		},
	}, rows)
}

// heatColor maps n on a green-yellow-red scale relative to top.
func heatColor(n, top int) rgb {
	if top <= 0 {
		return heatLow
	}
	t := float64(n) / float64(top)
	if t <= 0.5 {
		return lerp(heatLow, heatMid, t*2)
	}
	return lerp(heatMid, heatHigh, (t-0.5)*2)
}

func lerp(a, b rgb, t float64) rgb {
	mix := func(x, y int) int { return int(math.Round(float64(x) + float64(y-x)*t)) }
	return rgb{mix(a.r, b.r), mix(a.g, b.g), mix(a.b, b.b)}
}

func centered(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "C"
	}
	return out
}
