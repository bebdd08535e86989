package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"dira-price/core/output"
	"dira-price/core/pricing"
)

// Example prices per m² excluding VAT
const (
	exampleMainPrice    = 25000
	exampleCurrentPrice = 23000
)

const usageExamples = `Usage examples:
  dira-price --main-price 25000 --current-price 23000
  dira-price --main-price 25000 --current-price 23000 --area-type periphery
  dira-price --main-price 25000 --current-price 23000 --apartment-size 100 --parking-spaces 1
  dira-price --main-price 25000 --current-price 23000 --quiet
  dira-price --main-price 25000 --current-price 23000 --format xlsx --output price.xlsx
  dira-price batch scenarios.hcl --format csv
  dira-price serve --addr :8080`

func newExamplesCommand(g *globalOptions) *cobra.Command {
	out := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Price the standard apartment in a demand and a periphery area",
		Long: `Price the standard apartment (125 m², 12 m² balcony, 6 m² storage,
2 parking spaces, 18% VAT) at 25,000 main and 23,000 current price per m²,
once in a demand area and once in the periphery.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExamples(cmd, g, out)
		},
	}
	out.register(cmd)
	return cmd
}

// exampleReport prices the standard apartment in both area types
func exampleReport() (*output.Report, error) {
	examples := []struct {
		name string
		area pricing.AreaType
	}{
		{"Example 1: Demand area", pricing.AreaDemand},
		{"Example 2: Periphery area", pricing.AreaPeriphery},
	}

	report := &output.Report{Title: "DIRA BEHANAHA PRICE EXAMPLES"}
	for _, ex := range examples {
		in := pricing.DefaultInput(decimal.NewFromInt(exampleMainPrice), decimal.NewFromInt(exampleCurrentPrice))
		in.AreaType = ex.area

		res, err := pricing.Calculate(in)
		if err != nil {
			return nil, err
		}
		report.Entries = append(report.Entries, output.Entry{Name: ex.name, Result: res})
	}
	return report, nil
}

func runExamples(cmd *cobra.Command, g *globalOptions, out *outputOptions) error {
	report, err := exampleReport()
	if err != nil {
		return err
	}
	if err := out.emit(cmd, g.cfg, report); err != nil {
		return err
	}

	if out.printsText(cmd, g.cfg) {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), usageExamples)
	}
	return nil
}
