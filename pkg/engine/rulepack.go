package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/netcfg-audit/pkg/auditerr"
)

// RuleSpec is the YAML form of a custom rule.
type RuleSpec struct {
	ID             string `yaml:"id"`
	Category       string `yaml:"category"`
	Polarity       string `yaml:"polarity"` // absent / present
	Pattern        string `yaml:"pattern"`
	Title          string `yaml:"title"`
	Risk           string `yaml:"risk"`
	Recommendation string `yaml:"recommendation"`
}

// RulePack is a named set of custom rules (e.g. a site hardening baseline).
type RulePack struct {
	Name        string     `yaml:"pack"`
	Description string     `yaml:"description"`
	Rules       []RuleSpec `yaml:"rules"`
}

// LoadRulePacks reads every *.yaml / *.yml file in dir, sorted by file name.
func LoadRulePacks(dir string) ([]RulePack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, auditerr.E("engine.LoadRulePacks", auditerr.KindRulePack, "read dir "+dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var packs []RulePack
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, auditerr.E("engine.LoadRulePacks", auditerr.KindRulePack, "read "+entry.Name(), err)
		}
		var p RulePack
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, auditerr.E("engine.LoadRulePacks", auditerr.KindRulePack, "parse "+entry.Name(), err)
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(entry.Name(), ext)
		}
		packs = append(packs, p)
	}
	return packs, nil
}

// Compile validates the pack and turns its specs into rules. Patterns are
// always matched case-insensitively.
func (p RulePack) Compile() ([]Rule, error) {
	rules := make([]Rule, 0, len(p.Rules))
	for i, spec := range p.Rules {
		where := fmt.Sprintf("pack %s rule %d", p.Name, i)
		if spec.ID == "" {
			return nil, auditerr.E("engine.Compile", auditerr.KindRulePack, where+": missing id", nil)
		}
		where = fmt.Sprintf("pack %s rule %s", p.Name, spec.ID)
		if spec.Title == "" || spec.Pattern == "" {
			return nil, auditerr.E("engine.Compile", auditerr.KindRulePack, where+": title and pattern are required", nil)
		}
		cat, err := ParseCategory(spec.Category)
		if err != nil {
			return nil, auditerr.E("engine.Compile", auditerr.KindRulePack, where, err)
		}
		pol, err := ParsePolarity(spec.Polarity)
		if err != nil {
			return nil, auditerr.E("engine.Compile", auditerr.KindRulePack, where, err)
		}
		re, err := regexp.Compile("(?i)" + spec.Pattern)
		if err != nil {
			return nil, auditerr.E("engine.Compile", auditerr.KindRulePack, where+": bad pattern", err)
		}
		rules = append(rules, Rule{
			ID:             spec.ID,
			Category:       cat,
			Polarity:       pol,
			Pattern:        re,
			Title:          spec.Title,
			RiskDesc:       spec.Risk,
			Recommendation: spec.Recommendation,
		})
	}
	return rules, nil
}

// ExtendCatalog returns the built-in catalog followed by the rules of packs.
// Rule IDs must be unique across the result.
func ExtendCatalog(packs ...RulePack) ([]Rule, error) {
	rules := Catalog()
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		seen[strings.ToUpper(r.ID)] = true
	}
	for _, p := range packs {
		compiled, err := p.Compile()
		if err != nil {
			return nil, err
		}
		for _, r := range compiled {
			key := strings.ToUpper(r.ID)
			if seen[key] {
				return nil, auditerr.E("engine.ExtendCatalog", auditerr.KindRulePack,
					fmt.Sprintf("pack %s: duplicate rule id %s", p.Name, r.ID), nil)
			}
			seen[key] = true
			rules = append(rules, r)
		}
	}
	return rules, nil
}
