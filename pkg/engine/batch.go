package engine

// Document is one device configuration, already decoded to text.
type Document struct {
	Name string
	Text string
}

// DeviceSummary is one row of the device risk summary.
type DeviceSummary struct {
	Device string
	Count  int
	Score  RiskScore
}

// CategoryCount is a category total across the batch.
type CategoryCount struct {
	Category Category
	Count    int
}

// MatrixRow holds a device's finding counts indexed by Category.Index.
type MatrixRow struct {
	Device string
	Counts []int
}

// Count returns the number of findings in category c.
func (r MatrixRow) Count(c Category) int {
	i := c.Index()
	if i < 0 || i >= len(r.Counts) {
		return 0
	}
	return r.Counts[i]
}

// Batch holds the findings of one audit run. It is built on a single
// goroutine and is read-only once handed to reporting.
type Batch struct {
	devices  []string
	byDevice map[string][]Finding
	findings []Finding
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{
		byDevice: make(map[string][]Finding),
		findings: make([]Finding, 0),
	}
}

// Add folds one device's findings into the batch. A device seen before keeps
// its position and has the new findings appended to its set.
func (b *Batch) Add(device string, findings []Finding) {
	if _, ok := b.byDevice[device]; !ok {
		b.devices = append(b.devices, device)
		b.byDevice[device] = make([]Finding, 0, len(findings))
	}
	b.byDevice[device] = append(b.byDevice[device], findings...)
	b.findings = append(b.findings, findings...)
}

// Devices returns device names in first-seen order.
func (b *Batch) Devices() []string {
	out := make([]string, len(b.devices))
	copy(out, b.devices)
	return out
}

// DeviceFindings returns the findings recorded for device.
func (b *Batch) DeviceFindings(device string) []Finding {
	fs := b.byDevice[device]
	out := make([]Finding, len(fs))
	copy(out, fs)
	return out
}

// Findings returns every finding in processing order.
func (b *Batch) Findings() []Finding {
	out := make([]Finding, len(b.findings))
	copy(out, b.findings)
	return out
}

func (b *Batch) Len() int { return len(b.findings) }

// Summary returns one row per device with its count and risk score.
func (b *Batch) Summary() []DeviceSummary {
	rows := make([]DeviceSummary, 0, len(b.devices))
	for _, d := range b.devices {
		n := len(b.byDevice[d])
		rows = append(rows, DeviceSummary{Device: d, Count: n, Score: Score(n)})
	}
	return rows
}

// CategoryTotals counts findings per category.
func (b *Batch) CategoryTotals() map[Category]int {
	totals := make(map[Category]int, len(categoryOrder))
	for _, c := range categoryOrder {
		totals[c] = 0
	}
	for _, f := range b.findings {
		totals[f.Category]++
	}
	return totals
}

// CategoryCounts returns the totals in fixed category order, zeros included.
func (b *Batch) CategoryCounts() []CategoryCount {
	totals := b.CategoryTotals()
	out := make([]CategoryCount, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		out = append(out, CategoryCount{Category: c, Count: totals[c]})
	}
	return out
}

// Matrix returns per-device, per-category counts for the heat map.
func (b *Batch) Matrix() []MatrixRow {
	rows := make([]MatrixRow, 0, len(b.devices))
	for _, d := range b.devices {
		counts := make([]int, len(categoryOrder))
		for _, f := range b.byDevice[d] {
			if i := f.Category.Index(); i >= 0 {
				counts[i]++
			}
		}
		rows = append(rows, MatrixRow{Device: d, Counts: counts})
	}
	return rows
}

// RiskDistribution counts devices per risk bucket; all four buckets are present.
func (b *Batch) RiskDistribution() map[RiskScore]int {
	dist := make(map[RiskScore]int, 4)
	for _, lvl := range RiskLevels() {
		dist[lvl] = 0
	}
	for _, row := range b.Summary() {
		dist[row.Score]++
	}
	return dist
}
