package payslip_test

import (
	"bytes"
	"testing"

	"github.com/wcewong/paygen/internal/payslip"
	paysliperrors "github.com/wcewong/paygen/internal/payslip/errors"
	"github.com/wcewong/paygen/internal/shared/money"
	"github.com/wcewong/paygen/internal/taxstrategy"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	strategy := taxstrategy.NewFactory().CreateDefaultStrategy()

	t.Run("60,000 annual", func(t *testing.T) {
		r, err := payslip.Calculate(strategy, "Ren", money.DollarsToCents(60000), "MYR")

		assert.NoError(t, err)
		assert.Equal(t, "5000.00", r.GrossMonthlyIncomeDisplay)
		assert.Equal(t, "500.00", r.MonthlyIncomeTaxDisplay)
		assert.Equal(t, "4500.00", r.NetMonthlyIncomeDisplay)
		assert.Equal(t, "MYR", r.CurrencyCode)
		assert.Equal(t, taxstrategy.KindDefault, r.TaxStrategyKind)
	})

	t.Run("records the strategy kind used", func(t *testing.T) {
		flat, err := taxstrategy.NewFactory().CreateFlatTaxStrategy(0.15)
		assert.NoError(t, err)

		r, err := payslip.Calculate(flat, "Ren", money.DollarsToCents(100000), "MYR")

		assert.NoError(t, err)
		assert.Equal(t, taxstrategy.KindFlat, r.TaxStrategyKind)
		assert.Equal(t, money.Cents(125000), r.MonthlyIncomeTaxCents)
	})

	t.Run("80,150 annual rounds monthly amounts", func(t *testing.T) {
		r, err := payslip.Calculate(strategy, "Ren", money.DollarsToCents(80150), "MYR")

		assert.NoError(t, err)
		// 8,015,000 / 12 = 667,916.67 -> 667,917 and 1,004,500 / 12 = 83,708.33 -> 83,708
		assert.Equal(t, money.Cents(667917), r.GrossMonthlyIncomeCents)
		assert.Equal(t, money.Cents(83708), r.MonthlyIncomeTaxCents)
		assert.Equal(t, money.Cents(584209), r.NetMonthlyIncomeCents)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := payslip.Calculate(strategy, "  ", 100, "MYR")
		assert.ErrorIs(t, err, paysliperrors.ErrEmptyEmployeeName)

		_, err = payslip.Calculate(strategy, "Ren", 0, "MYR")
		assert.ErrorIs(t, err, paysliperrors.ErrNonPositiveSalary)

		_, err = payslip.Calculate(strategy, "Ren", -1, "MYR")
		assert.ErrorIs(t, err, paysliperrors.ErrNonPositiveSalary)

		_, err = payslip.Calculate(strategy, "Ren", 100, "")
		assert.ErrorIs(t, err, paysliperrors.ErrCurrencyCodeRequired)
	})
}

func TestWritePayslip(t *testing.T) {
	strategy := taxstrategy.NewFactory().CreateDefaultStrategy()
	r, err := payslip.Calculate(strategy, "Ren", money.DollarsToCents(60000), "MYR")
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, payslip.WritePayslip(&buf, r))

	want := "Monthly Payslip for: \"Ren\"\n" +
		"Gross Monthly Income: $5000.00\n" +
		"Monthly Income Tax: $500.00\n" +
		"Net Monthly Income: $4500.00\n"
	assert.Equal(t, want, buf.String())
}
