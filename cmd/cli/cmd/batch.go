package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dira-price/adapters/scenario"
	"dira-price/core/output"
	"dira-price/core/pricing"
	"dira-price/internal/errors"
	"dira-price/internal/logging"
)

func newBatchCommand(g *globalOptions) *cobra.Command {
	out := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "batch <file.hcl>",
		Short: "Price every scenario in an HCL file",
		Long: `Price several apartments described in an HCL file and compare them.

Example file:

  defaults {
    vat_percent = 18
  }

  scenario "tel-aviv" {
    main_price    = 25000
    current_price = 23000
  }

  scenario "dimona" {
    main_price     = 12000
    current_price  = 11000
    area_type      = "periphery"
    parking_spaces = 1
  }

Attributes left out of a scenario come from the defaults block, then from
the configuration file.`,
		Example: `  dira-price batch scenarios.hcl
  dira-price batch scenarios.hcl --format csv --output comparison.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, g, out, args[0])
		},
	}
	out.register(cmd)
	return cmd
}

func runBatch(cmd *cobra.Command, g *globalOptions, out *outputOptions, path string) error {
	scenarios, err := scenario.NewLoader(g.cfg.Defaults).LoadFile(path)
	if err != nil {
		return err
	}

	report := &output.Report{Title: "SCENARIOS: " + filepath.Base(path)}
	for _, s := range scenarios {
		res, err := pricing.Calculate(s.Input)
		if err != nil {
			if e, ok := errors.As(err); ok {
				return e.WithContext("scenario", s.Name)
			}
			return err
		}
		report.Entries = append(report.Entries, output.Entry{Name: s.Name, Result: res})
	}

	logging.Debug("scenarios priced", zap.String("file", path), zap.Int("count", len(scenarios)))
	return out.emit(cmd, g.cfg, report)
}
