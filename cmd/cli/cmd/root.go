// Package cmd provides the CLI commands for dira-price.
package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dira-price/core/output"
	"dira-price/core/pricing"
	"dira-price/internal/config"
	"dira-price/internal/errors"
	"dira-price/internal/logging"
)

// dotenvFile is loaded from the working directory when present
const dotenvFile = ".env"

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
}

// calcOptions are the root command's calculation flags
type calcOptions struct {
	mainPrice     float64
	currentPrice  float64
	apartmentSize float64
	balconySize   float64
	storageSize   float64
	parkingSpaces int
	areaType      string
	vatPercent    float64
}

// inputFlags are the flags that describe an apartment
var inputFlags = []string{
	"main-price", "current-price", "apartment-size", "balcony-size",
	"storage-size", "parking-spaces", "area-type", "vat-rate",
}

// Execute runs the CLI and prints any error to stderr
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error: " + errorMessage(err))
		return err
	}
	return nil
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}
	calc := &calcOptions{}
	out := &outputOptions{}

	root := &cobra.Command{
		Use:   "dira-price",
		Short: "Calculate Dira Behanaha apartment prices",
		Long: `dira-price calculates the final price and discount of an apartment
under the Dira Behanaha (discounted housing) program.

Prices are per square meter and exclude VAT. The effective area weights
the balcony at 30%, storage at 40% and each parking space as 2 m².

Run without flags to see two worked examples.`,
		Example: `  dira-price --main-price 25000 --current-price 23000
  dira-price --main-price 25000 --current-price 23000 --area-type periphery
  dira-price --main-price 25000 --current-price 23000 --quiet
  dira-price --main-price 25000 --current-price 23000 -f xlsx -o price.xlsx`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.initConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !anyChanged(cmd, inputFlags...) {
				return runExamples(cmd, g, out)
			}
			return runCalculate(cmd, g, calc, out)
		},
	}

	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default is $HOME/.dira-price.json)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")

	flags := root.Flags()
	flags.Float64Var(&calc.mainPrice, "main-price", 0, "main price per m² excluding VAT (required)")
	flags.Float64Var(&calc.currentPrice, "current-price", 0, "current price per m² excluding VAT (required)")
	flags.Float64Var(&calc.apartmentSize, "apartment-size", pricing.DefaultApartmentSize, "apartment size in m²")
	flags.Float64Var(&calc.balconySize, "balcony-size", pricing.DefaultBalconySize, "balcony size in m²")
	flags.Float64Var(&calc.storageSize, "storage-size", pricing.DefaultStorageSize, "storage size in m²")
	flags.IntVar(&calc.parkingSpaces, "parking-spaces", pricing.DefaultParkingSpaces, "number of parking spaces")
	flags.StringVar(&calc.areaType, "area-type", string(pricing.DefaultAreaType), "area type (demand, periphery)")
	flags.Float64Var(&calc.vatPercent, "vat-rate", pricing.DefaultVATPercent, "VAT rate in percent")
	out.register(root)

	root.AddCommand(newExamplesCommand(g))
	root.AddCommand(newBatchCommand(g))
	root.AddCommand(newServeCommand(g))
	root.AddCommand(newVersionCommand())
	root.AddCommand(newConfigCommand(g))

	return root
}

// initConfig loads the config file, .env and DIRA_* overrides, then logging
func (g *globalOptions) initConfig() error {
	path := g.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(dotenvFile); err != nil {
		return err
	}
	if g.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return errors.Config("failed to initialize logging", err)
	}

	config.Set(cfg)
	g.cfg = cfg
	logging.Debug("configuration loaded", zap.String("path", path))
	return nil
}

func runCalculate(cmd *cobra.Command, g *globalOptions, calc *calcOptions, out *outputOptions) error {
	if !cmd.Flags().Changed("main-price") || !cmd.Flags().Changed("current-price") {
		return errors.Input("--main-price and --current-price are required")
	}

	in, err := calc.input(cmd, g.cfg.Defaults)
	if err != nil {
		return err
	}

	res, err := pricing.Calculate(in)
	if err != nil {
		return err
	}
	logging.Debug("price calculated",
		zap.String("final_price", res.FinalPrice.String()),
		zap.String("discount", res.DiscountAmount.String()),
		zap.String("discount_type", string(res.DiscountType)),
	)

	return out.emit(cmd, g.cfg, output.Single(res))
}

// input starts from the configured defaults and applies the flags that were set
func (c *calcOptions) input(cmd *cobra.Command, defaults config.DefaultsConfig) (pricing.Input, error) {
	flags := cmd.Flags()
	if flags.Changed("apartment-size") {
		defaults.ApartmentSize = c.apartmentSize
	}
	if flags.Changed("balcony-size") {
		defaults.BalconySize = c.balconySize
	}
	if flags.Changed("storage-size") {
		defaults.StorageSize = c.storageSize
	}
	if flags.Changed("parking-spaces") {
		defaults.ParkingSpaces = c.parkingSpaces
	}
	if flags.Changed("area-type") {
		defaults.AreaType = c.areaType
	}
	if flags.Changed("vat-rate") {
		defaults.VATPercent = c.vatPercent
	}

	in, err := defaults.Input(decimal.NewFromFloat(c.mainPrice), decimal.NewFromFloat(c.currentPrice))
	if err != nil {
		return pricing.Input{}, err
	}
	return in, nil
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// errorMessage strips the type tag from domain errors for display
func errorMessage(err error) string {
	if e, ok := errors.As(err); ok {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}
