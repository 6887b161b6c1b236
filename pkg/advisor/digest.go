package advisor

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/user/netcfg-audit/pkg/engine"
)

//go:embed prompts/summary.md
var summaryPrompt string

// SystemPrompt returns the instructions sent ahead of every digest.
func SystemPrompt() string {
	return summaryPrompt
}

// maxTopFindings bounds the recurring-findings list in a digest.
const maxTopFindings = 5

type RiskBucket struct {
	Level   engine.RiskScore
	Devices int
}

type TitleCount struct {
	Title    string
	Category engine.Category
	Devices  int
}

// Digest is the aggregate view of a batch handed to the model. It carries
// counts and rule titles only; configuration text never leaves the host.
type Digest struct {
	Devices     int
	Findings    int
	Risk        []RiskBucket
	Categories  []engine.CategoryCount
	TopFindings []TitleCount
}

// NewDigest summarises a finished batch.
func NewDigest(b *engine.Batch) Digest {
	d := Digest{
		Devices:    len(b.Devices()),
		Findings:   b.Len(),
		Categories: b.CategoryCounts(),
	}

	dist := b.RiskDistribution()
	for _, lvl := range engine.RiskLevels() {
		d.Risk = append(d.Risk, RiskBucket{Level: lvl, Devices: dist[lvl]})
	}

	byTitle := map[string]*TitleCount{}
	var order []string
	for _, f := range b.Findings() {
		tc, ok := byTitle[f.Title]
		if !ok {
			tc = &TitleCount{Title: f.Title, Category: f.Category}
			byTitle[f.Title] = tc
			order = append(order, f.Title)
		}
		tc.Devices++
	}
	for _, title := range order {
		d.TopFindings = append(d.TopFindings, *byTitle[title])
	}
	sort.SliceStable(d.TopFindings, func(i, j int) bool {
		return d.TopFindings[i].Devices > d.TopFindings[j].Devices
	})
	if len(d.TopFindings) > maxTopFindings {
		d.TopFindings = d.TopFindings[:maxTopFindings]
	}
	return d
}

// Prompt renders the digest as the user turn.
func (d Digest) Prompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Devices audited: %d\n", d.Devices)
	fmt.Fprintf(&b, "Total findings: %d\n\n", d.Findings)

	b.WriteString("Devices by risk level:\n")
	for _, r := range d.Risk {
		fmt.Fprintf(&b, "- %s: %d\n", r.Level, r.Devices)
	}

	b.WriteString("\nFindings by category:\n")
	for _, c := range d.Categories {
		fmt.Fprintf(&b, "- %s: %d\n", c.Category, c.Count)
	}

	if len(d.TopFindings) > 0 {
		b.WriteString("\nMost frequent findings:\n")
		for _, t := range d.TopFindings {
			fmt.Fprintf(&b, "- %s (%s): %d devices\n", t.Title, t.Category, t.Devices)
		}
	}
	return b.String()
}
