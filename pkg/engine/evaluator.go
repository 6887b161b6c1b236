package engine

// Evaluator applies an ordered rule set to device configurations.
type Evaluator struct {
	rules []Rule
}

// NewEvaluator uses rules in the given order. A nil slice means the built-in catalog.
func NewEvaluator(rules []Rule) *Evaluator {
	if rules == nil {
		rules = Catalog()
	}
	return &Evaluator{rules: rules}
}

// Rules returns the rules in evaluation order.
func (e *Evaluator) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate runs every rule once against text and returns the findings in rule
// order. It never fails: empty or malformed text yields the findings of every
// absence rule.
func (e *Evaluator) Evaluate(device, text string) []Finding {
	findings := make([]Finding, 0, len(e.rules))
	for _, r := range e.rules {
		if r.Fires(text) {
			findings = append(findings, r.finding(device))
		}
	}
	return findings
}

// Audit evaluates docs sequentially into a fresh batch.
func (e *Evaluator) Audit(docs []Document) *Batch {
	b := NewBatch()
	for _, d := range docs {
		b.Add(d.Name, e.Evaluate(d.Name, d.Text))
	}
	return b
}
