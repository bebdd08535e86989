package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dira-price/core/output"
	"dira-price/core/ui"
	"dira-price/internal/config"
	"dira-price/internal/errors"
	"dira-price/internal/logging"
)

// outputOptions are the report flags of commands that print results
type outputOptions struct {
	format  string
	path    string
	quiet   bool
	noColor bool
}

func (o *outputOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.format, "format", "f", string(output.FormatText), "output format (text, json, csv, xlsx)")
	flags.StringVarP(&o.path, "output", "o", "", "write the report to a file (required for xlsx)")
	flags.BoolVarP(&o.quiet, "quiet", "q", false, "only show final price and discount")
	flags.BoolVar(&o.noColor, "no-color", false, "disable colored output")
}

// resolve picks the flag value over the configured output settings
func (o *outputOptions) resolve(cmd *cobra.Command, cfg *config.Config) (output.Format, output.Options) {
	format := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format = o.format
	}
	opts := output.Options{
		Quiet:   o.quiet,
		NoColor: o.noColor || cfg.Output.NoColor,
		Style:   output.Style{Currency: cfg.Output.CurrencySymbol},
	}
	return output.Format(strings.ToLower(format)), opts
}

// emit renders the report to stdout or to the --output file
func (o *outputOptions) emit(cmd *cobra.Command, cfg *config.Config, report *output.Report) error {
	format, opts := o.resolve(cmd, cfg)

	formatter, err := output.NewRegistry(opts).Get(format)
	if err != nil {
		return errors.Input("unsupported output format").WithContext("format", string(format))
	}

	if o.path == "" {
		if format.Binary() {
			return errors.Input("--output is required for " + string(format) + " format")
		}
		return formatter.Render(cmd.OutOrStdout(), report)
	}

	file, err := os.Create(o.path)
	if err != nil {
		return errors.Export("failed to create output file", err).WithContext("path", o.path)
	}
	if err := formatter.Render(file, report); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.Export("failed to write output file", err).WithContext("path", o.path)
	}

	logging.Debug("report written", zap.String("path", o.path), zap.String("format", string(format)))
	if !o.quiet {
		ui.NewWriter(cmd.OutOrStdout(), opts.NoColor).Success("Report written to %s", o.path)
	}
	return nil
}

// printsText reports whether emit wrote a full text report to stdout
func (o *outputOptions) printsText(cmd *cobra.Command, cfg *config.Config) bool {
	format, _ := o.resolve(cmd, cfg)
	return format == output.FormatText && o.path == "" && !o.quiet
}
