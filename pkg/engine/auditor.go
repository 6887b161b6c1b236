package engine

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/user/netcfg-audit/pkg/logging"
)

// Auditor evaluates documents on a bounded pool of goroutines.
type Auditor struct {
	evaluator *Evaluator
	workers   int
	log       logrus.FieldLogger
}

// NewAuditor creates an Auditor. workers <= 0 means runtime.NumCPU().
func NewAuditor(ev *Evaluator, workers int, log logrus.FieldLogger) *Auditor {
	if ev == nil {
		ev = NewEvaluator(nil)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Auditor{evaluator: ev, workers: workers, log: log}
}

// Run evaluates docs and folds the results in input order, so the batch is the
// same as a sequential run whatever order the workers finish in.
func (a *Auditor) Run(ctx context.Context, docs []Document) (*Batch, error) {
	results := make([][]Finding, len(docs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = a.evaluator.Evaluate(doc.Name, doc.Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := NewBatch()
	for i, doc := range docs {
		batch.Add(doc.Name, results[i])
		a.log.WithFields(logrus.Fields{
			"device":   doc.Name,
			"findings": len(results[i]),
		}).Debug("device evaluated")
	}
	a.log.WithFields(logrus.Fields{
		"devices":  len(batch.Devices()),
		"findings": batch.Len(),
	}).Info("audit complete")
	return batch, nil
}
