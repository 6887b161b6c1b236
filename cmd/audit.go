package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/user/netcfg-audit/pkg/advisor"
	"github.com/user/netcfg-audit/pkg/engine"
	"github.com/user/netcfg-audit/pkg/report"
	"github.com/user/netcfg-audit/pkg/upload"
)

var auditOpts struct {
	out       string
	formats   []string
	workers   int
	rulesDir  string
	title     string
	aiSummary bool
	quiet     bool
}

var auditCmd = &cobra.Command{
	Use:   "audit [paths...]",
	Short: "Audit configuration files, directories, zip or rar archives",
	Example: `  netcfg-audit audit running-configs.zip
  netcfg-audit audit ./configs --format pdf,md --out ./reports
  netcfg-audit audit core.cfg edge.cfg --ai-summary`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudit(cmd, args)
	},
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !cmd.Flags().Changed("out") {
		auditOpts.out = cfg.OutputDir
	}
	if !cmd.Flags().Changed("format") {
		auditOpts.formats = cfg.Formats
	}
	if !cmd.Flags().Changed("workers") {
		auditOpts.workers = cfg.Workers
	}
	if auditOpts.rulesDir == "" {
		auditOpts.rulesDir = cfg.RulePacksDir
	}
	if auditOpts.title == "" {
		auditOpts.title = cfg.ReportTitle
	}

	formats, err := report.ParseFormats(auditOpts.formats)
	if err != nil {
		return err
	}

	rules, err := loadRules(auditOpts.rulesDir)
	if err != nil {
		return err
	}

	sources, uploadErrs := upload.Collect(args, log)
	if len(sources) == 0 {
		return fmt.Errorf("no configuration files to audit (%d input errors)", len(uploadErrs))
	}

	auditor := engine.NewAuditor(engine.NewEvaluator(rules), auditOpts.workers, log)
	batch, err := auditor.Run(ctx, upload.Documents(sources))
	if err != nil {
		return err
	}

	r := report.Build(batch, auditOpts.title, time.Now())
	if auditOpts.aiSummary {
		r.ExecutiveSummary = executiveSummary(ctx, batch)
	}

	if !auditOpts.quiet {
		if err := report.WriteConsole(out, r); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	arts, renderErrs := report.Generate(r, formats)
	for _, e := range renderErrs {
		log.WithError(e).Error("artifact not generated")
	}
	paths, err := report.Save(auditOpts.out, arts)
	for _, p := range paths {
		fmt.Fprintf(out, "Wrote %s\n", p)
	}
	if err != nil {
		return err
	}

	if !r.HasFindings() {
		fmt.Fprintln(out, "No findings identified.")
	}
	if len(renderErrs) > 0 {
		return fmt.Errorf("%d of %d report formats failed: %w", len(renderErrs), len(formats), errors.Join(renderErrs...))
	}
	return nil
}

func loadRules(dir string) ([]engine.Rule, error) {
	if dir == "" {
		return engine.Catalog(), nil
	}
	packs, err := engine.LoadRulePacks(dir)
	if err != nil {
		return nil, err
	}
	rules, err := engine.ExtendCatalog(packs...)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"dir": dir, "packs": len(packs), "rules": len(rules)}).Info("rule packs loaded")
	return rules, nil
}

func executiveSummary(ctx context.Context, batch *engine.Batch) string {
	provider := cfg.Advisor.Provider
	s, err := advisor.NewSummarizer(ctx, provider, apiKey(provider), cfg.Advisor.Model)
	if err != nil {
		log.WithError(err).Warn("executive summary disabled")
		return ""
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()
	return advisor.Summary(ctx, s, advisor.NewDigest(batch), log)
}

func init() {
	f := auditCmd.Flags()
	f.StringVarP(&auditOpts.out, "out", "o", ".", "Directory for generated reports")
	f.StringSliceVarP(&auditOpts.formats, "format", "f", nil, "Report formats: csv, pdf, docx, md (default from config)")
	f.IntVarP(&auditOpts.workers, "workers", "w", 0, "Parallel device evaluations (default from config)")
	f.StringVar(&auditOpts.rulesDir, "rules-dir", "", "Directory of YAML rule packs appended to the built-in catalog")
	f.StringVar(&auditOpts.title, "title", "", "Report title")
	f.BoolVar(&auditOpts.aiSummary, "ai-summary", false, "Add an LLM-written executive summary")
	f.BoolVarP(&auditOpts.quiet, "quiet", "q", false, "Do not print console tables")
	rootCmd.AddCommand(auditCmd)
}
