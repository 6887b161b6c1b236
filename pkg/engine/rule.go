package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// Polarity says whether a rule fires on the absence of a mitigating pattern
// or on the presence of a risky one.
type Polarity int

const (
	Absent Polarity = iota
	Present
)

func (p Polarity) String() string {
	switch p {
	case Absent:
		return "absent"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}

// ParsePolarity accepts "absent" / "present" ("missing" is an alias). Empty means absent.
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "absent", "missing":
		return Absent, nil
	case "present":
		return Present, nil
	default:
		return Absent, fmt.Errorf("unknown polarity %q", s)
	}
}

// Rule is a single check over raw configuration text.
type Rule struct {
	ID       string
	Category Category
	Polarity Polarity

	// Pattern is searched over the full text. Match, when set, replaces it.
	Pattern *regexp.Regexp
	Match   func(text string) bool

	Title          string
	RiskDesc       string
	Recommendation string
}

// Fires reports whether r yields a finding for text. A panicking matcher is
// treated as "no match", so the rule's polarity decides the outcome.
func (r Rule) Fires(text string) bool {
	hit := r.matches(text)
	if r.Polarity == Absent {
		return !hit
	}
	return hit
}

func (r Rule) matches(text string) (hit bool) {
	defer func() {
		if recover() != nil {
			hit = false
		}
	}()
	if r.Match != nil {
		return r.Match(text)
	}
	if r.Pattern == nil {
		return false
	}
	return r.Pattern.MatchString(text)
}

func (r Rule) finding(device string) Finding {
	return Finding{
		RuleID:         r.ID,
		Title:          r.Title,
		Device:         device,
		RiskDesc:       r.RiskDesc,
		Recommendation: r.Recommendation,
		Category:       r.Category,
	}
}
