package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBands(t *testing.T) {
	tests := []struct {
		n    int
		want RiskScore
	}{
		{0, NoRisk},
		{1, Low},
		{2, Low},
		{3, Medium},
		{5, Medium},
		{6, High},
		{22, High},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.n), "Score(%d)", tt.n)
	}
}

func TestBatch_AddIsAdditive(t *testing.T) {
	b := NewBatch()
	b.Add("sw1", []Finding{{Title: "a", Device: "sw1", Category: CategoryAAA}})
	b.Add("sw2", nil)
	b.Add("sw1", []Finding{{Title: "b", Device: "sw1", Category: CategoryCrypto}})

	assert.Equal(t, []string{"sw1", "sw2"}, b.Devices())
	assert.Len(t, b.DeviceFindings("sw1"), 2)
	assert.Empty(t, b.DeviceFindings("sw2"))
	assert.Equal(t, 2, b.Len())

	summary := b.Summary()
	require.Len(t, summary, 2)
	assert.Equal(t, DeviceSummary{Device: "sw1", Count: 2, Score: Low}, summary[0])
	assert.Equal(t, DeviceSummary{Device: "sw2", Count: 0, Score: NoRisk}, summary[1])
}

func TestBatch_CategoryCountsAndMatrix(t *testing.T) {
	b := NewBatch()
	b.Add("a", []Finding{
		{Device: "a", Category: CategoryLayer2},
		{Device: "a", Category: CategoryLayer2},
		{Device: "a", Category: CategoryConfigMgmt},
	})
	b.Add("b", []Finding{{Device: "b", Category: CategoryLogging}})

	counts := b.CategoryCounts()
	require.Len(t, counts, 7)
	assert.Equal(t, CategoryCount{Category: CategoryLayer2, Count: 2}, counts[0])
	assert.Equal(t, CategoryCount{Category: CategoryAccessControl, Count: 0}, counts[1])
	assert.Equal(t, CategoryCount{Category: CategoryConfigMgmt, Count: 1}, counts[6])

	matrix := b.Matrix()
	require.Len(t, matrix, 2)
	assert.Equal(t, []int{2, 0, 0, 0, 0, 0, 1}, matrix[0].Counts)
	assert.Equal(t, 1, matrix[1].Count(CategoryLogging))
	assert.Equal(t, 0, matrix[1].Count(CategoryCrypto))
	assert.Equal(t, 0, matrix[1].Count(Category("Physical")))

	dist := b.RiskDistribution()
	assert.Equal(t, map[RiskScore]int{NoRisk: 0, Low: 1, Medium: 1, High: 0}, dist)
}

func TestBatch_ReturnsCopies(t *testing.T) {
	b := NewBatch()
	b.Add("a", []Finding{{Title: "x", Device: "a"}})
	fs := b.Findings()
	fs[0].Title = "changed"
	assert.Equal(t, "x", b.Findings()[0].Title)
	assert.Equal(t, "x", b.DeviceFindings("a")[0].Title)
}

func testDocuments() []Document {
	return []Document{
		{Name: "bare.cfg", Text: "hostname bare\ninterface Gi0/1\n description live\nline vty 0 4\n transport input telnet\nusername admin password 7 0822\nip http server\n"},
		{Name: "aaa-only.cfg", Text: "aaa new-model\n"},
		{Name: "hardened.cfg", Text: hardenedConfig},
	}
}

func TestAudit_EndToEndScenario(t *testing.T) {
	b := NewEvaluator(nil).Audit(testDocuments())

	summary := b.Summary()
	require.Len(t, summary, 3)
	assert.Equal(t, High, summary[0].Score)
	assert.GreaterOrEqual(t, summary[0].Count, 6)
	assert.Equal(t, 13, summary[1].Count)
	assert.Equal(t, High, summary[1].Score)
	assert.Equal(t, NoRisk, summary[2].Score)

	total := 0
	for _, c := range b.CategoryCounts() {
		total += c.Count
	}
	assert.Equal(t, b.Len(), total)

	perDevice := 0
	for _, row := range summary {
		perDevice += row.Count
	}
	assert.Equal(t, b.Len(), perDevice)
}

func TestAudit_PermutationInvariance(t *testing.T) {
	docs := testDocuments()
	reversed := []Document{docs[2], docs[0], docs[1]}

	ev := NewEvaluator(nil)
	a, b := ev.Audit(docs), ev.Audit(reversed)

	scores := func(batch *Batch) map[string]DeviceSummary {
		out := map[string]DeviceSummary{}
		for _, row := range batch.Summary() {
			out[row.Device] = row
		}
		return out
	}
	assert.Equal(t, scores(a), scores(b))
	assert.Equal(t, a.CategoryTotals(), b.CategoryTotals())
	assert.Equal(t, a.RiskDistribution(), b.RiskDistribution())
	assert.NotEqual(t, a.Devices(), b.Devices())
}

func TestAuditor_MatchesSequentialOrder(t *testing.T) {
	var docs []Document
	for i := 0; i < 40; i++ {
		docs = append(docs, testDocuments()[i%3])
		docs[i].Name = fmt.Sprintf("dev-%02d", i)
	}

	want := NewEvaluator(nil).Audit(docs)
	got, err := NewAuditor(nil, 4, nil).Run(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, want.Devices(), got.Devices())
	assert.Equal(t, want.Findings(), got.Findings())
}

func TestAuditor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAuditor(nil, 2, nil).Run(ctx, testDocuments())
	assert.ErrorIs(t, err, context.Canceled)
}
