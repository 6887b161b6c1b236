package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/user/netcfg-audit/pkg/auditerr"
)

// Summarizer writes an executive summary from an audit digest.
type Summarizer interface {
	Summarize(ctx context.Context, d Digest) (string, error)
	Close() error
}

// NewSummarizer returns the summarizer for the named provider.
func NewSummarizer(ctx context.Context, provider, apiKey, model string) (Summarizer, error) {
	switch strings.ToLower(provider) {
	case "", "gemini":
		g, err := NewGemini(ctx, apiKey, model)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, auditerr.E("advisor.NewSummarizer", auditerr.KindConfig,
			fmt.Sprintf("unknown provider: %s", provider), nil)
	}
}

// Summary asks s for an executive summary. Failures are logged and yield an
// empty string so the audit always completes.
func Summary(ctx context.Context, s Summarizer, d Digest, log logrus.FieldLogger) string {
	text, err := s.Summarize(ctx, d)
	if err != nil {
		log.WithError(err).Warn("executive summary unavailable")
		return ""
	}
	return strings.TrimSpace(text)
}
