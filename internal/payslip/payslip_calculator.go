package payslip

import (
	"strings"

	paysliperrors "github.com/wcewong/paygen/internal/payslip/errors"

	"github.com/wcewong/paygen/internal/shared/money"
	"github.com/wcewong/paygen/internal/taxstrategy"
)

// HighSalaryWarningCents is the annual salary above which generation logs a warning.
const HighSalaryWarningCents money.Cents = 10_000_000 * 100

// Calculate derives a monthly payslip from an annual salary with the given
// strategy. It performs no I/O.
func Calculate(
	strategy taxstrategy.Strategy,
	employeeName string,
	annualSalaryCents money.Cents,
	currencyCode string,
) (Result, error) {
	if strings.TrimSpace(employeeName) == "" {
		return Result{}, paysliperrors.ErrEmptyEmployeeName
	}
	if annualSalaryCents <= 0 {
		return Result{}, paysliperrors.ErrNonPositiveSalary
	}

	annualTax, err := strategy.CalculateAnnualTaxCents(annualSalaryCents)
	if err != nil {
		return Result{}, err
	}

	gross := money.AnnualToMonthly(annualSalaryCents)
	tax := money.AnnualToMonthly(annualTax)

	result, err := NewBuilder().
		SetEmployeeName(employeeName).
		SetGrossMonthlyIncomeCents(gross).
		SetMonthlyIncomeTaxCents(tax).
		SetNetMonthlyIncomeCents(gross - tax).
		SetCurrencyCode(currencyCode).
		Build()
	if err != nil {
		return Result{}, err
	}

	result.TaxStrategyKind = strategy.Kind()
	return result, nil
}
