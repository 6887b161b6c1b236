package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/netcfg-audit/pkg/auditerr"
)

func writePack(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadRulePacks(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "b-site.yaml", `
pack: site-baseline
description: local hardening rules
rules:
  - id: SITE-BANNER
    category: config mgmt
    polarity: absent
    pattern: '\bbanner (motd|login)\b'
    title: No Login Banner
    risk: No legal notice on login
    recommendation: Configure a login banner
  - id: SITE-CDP
    category: Layer 2
    polarity: present
    pattern: '(?m)^cdp run\b'
    title: CDP Enabled Globally
    risk: Topology disclosure
    recommendation: Disable CDP on untrusted ports
`)
	writePack(t, dir, "a-empty.yml", "rules: []\n")
	writePack(t, dir, "notes.txt", "ignored")

	packs, err := LoadRulePacks(dir)
	require.NoError(t, err)
	require.Len(t, packs, 2)
	assert.Equal(t, "a-empty", packs[0].Name)
	assert.Equal(t, "site-baseline", packs[1].Name)

	rules, err := ExtendCatalog(packs...)
	require.NoError(t, err)
	require.Len(t, rules, len(Catalog())+2)
	assert.Equal(t, "SITE-BANNER", rules[len(rules)-2].ID)
	assert.Equal(t, CategoryConfigMgmt, rules[len(rules)-2].Category)

	fs := NewEvaluator(rules).Evaluate("sw", "CDP RUN\n")
	ids := ruleIDs(fs)
	assert.Contains(t, ids, "SITE-BANNER")
	assert.Contains(t, ids, "SITE-CDP")
	assert.Equal(t, "SITE-CDP", ids[len(ids)-1])
}

func TestRulePackValidation(t *testing.T) {
	tests := []struct {
		name string
		spec RuleSpec
	}{
		{"missing id", RuleSpec{Category: "AAA", Pattern: "x", Title: "t"}},
		{"bad category", RuleSpec{ID: "X", Category: "Physical", Pattern: "x", Title: "t"}},
		{"bad polarity", RuleSpec{ID: "X", Category: "AAA", Polarity: "maybe", Pattern: "x", Title: "t"}},
		{"bad regex", RuleSpec{ID: "X", Category: "AAA", Pattern: "(unclosed", Title: "t"}},
		{"missing title", RuleSpec{ID: "X", Category: "AAA", Pattern: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RulePack{Name: "p", Rules: []RuleSpec{tt.spec}}.Compile()
			require.Error(t, err)
			assert.True(t, auditerr.Is(err, auditerr.KindRulePack))
		})
	}
}

func TestExtendCatalog_DuplicateID(t *testing.T) {
	pack := RulePack{Name: "dup", Rules: []RuleSpec{{
		ID: "cr-ssh", Category: "Crypto", Pattern: "ssh", Title: "dup",
	}}}
	_, err := ExtendCatalog(pack)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rule id")
}

func TestLoadRulePacks_MissingDir(t *testing.T) {
	_, err := LoadRulePacks(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, auditerr.KindRulePack, auditerr.KindOf(err))
}
