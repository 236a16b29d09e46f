package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wcewong/paygen/internal/payslip"
	paysliperrors "github.com/wcewong/paygen/internal/payslip/errors"
	"github.com/wcewong/paygen/internal/shared/money"
	"github.com/wcewong/paygen/internal/taxstrategy"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	alternative bool
	flatRate    float64
	currency    string
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "payslip <employee-name> <annual-salary>",
		Short: "Print a monthly payslip for an annual salary",
		Example: `  payslip "Ren" 60000
  payslip --alternative "Ren" 80150.50
  payslip --flat 0.15 "Ren" 100000`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(out, cmd.Flags().Changed("flat"), opts, args[0], args[1])
		},
	}

	cmd.SetOut(out)
	cmd.Flags().BoolVar(&opts.alternative, "alternative", false, "use the alternative bracket table")
	cmd.Flags().Float64Var(&opts.flatRate, "flat", 0, "use a flat tax rate between 0 and 1")
	cmd.Flags().StringVar(&opts.currency, "currency", payslip.DefaultCurrency, "3-letter currency code")
	cmd.MarkFlagsMutuallyExclusive("alternative", "flat")

	return cmd
}

func run(out io.Writer, flat bool, opts options, employeeName, salary string) error {
	annualSalaryCents, err := money.ParseDecimalDollars(salary)
	if err != nil {
		return err
	}

	strategy, err := selectStrategy(taxstrategy.NewFactory(), flat, opts)
	if err != nil {
		return err
	}

	currency := strings.ToUpper(strings.TrimSpace(opts.currency))
	if len(currency) != 3 {
		return paysliperrors.ErrInvalidCurrencyCode
	}

	result, err := payslip.Calculate(strategy, employeeName, annualSalaryCents, currency)
	if err != nil {
		return fmt.Errorf("failed to generate payslip: %w", err)
	}

	return payslip.WritePayslip(out, result)
}

func selectStrategy(f taxstrategy.Factory, flat bool, opts options) (taxstrategy.Strategy, error) {
	switch {
	case flat:
		return f.CreateFlatTaxStrategy(opts.flatRate)
	case opts.alternative:
		return f.CreateAlternativeStrategy(), nil
	default:
		return f.CreateDefaultStrategy(), nil
	}
}
