package payslip

import (
	"strings"
	"time"

	paysliperrors "github.com/wcewong/paygen/internal/payslip/errors"

	"github.com/wcewong/paygen/internal/shared/money"
	"github.com/wcewong/paygen/internal/taxstrategy"
)

// Result is a validated monthly payslip. It is only produced by Builder.Build.
type Result struct {
	EmployeeName            string
	GrossMonthlyIncomeCents money.Cents
	MonthlyIncomeTaxCents   money.Cents
	NetMonthlyIncomeCents   money.Cents
	CurrencyCode            string
	CalculatedAt            time.Time

	// TaxStrategyKind is set by Calculate; the builder leaves it empty.
	TaxStrategyKind taxstrategy.Kind

	GrossMonthlyIncomeDisplay string
	MonthlyIncomeTaxDisplay   string
	NetMonthlyIncomeDisplay   string
}

// buildingData uses pointers so an unset amount is distinct from zero.
type buildingData struct {
	employeeName            *string
	grossMonthlyIncomeCents *money.Cents
	monthlyIncomeTaxCents   *money.Cents
	netMonthlyIncomeCents   *money.Cents
	currencyCode            *string
	calculatedAt            *time.Time
}

// Builder accumulates payslip fields and validates them on Build.
// A successful Build resets the builder; a failed one leaves it untouched.
// Builders are not safe for concurrent use.
type Builder struct {
	data buildingData
	now  func() time.Time
}

func NewBuilder() *Builder {
	return NewBuilderWithClock(time.Now)
}

func NewBuilderWithClock(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{now: now}
}

func (b *Builder) SetEmployeeName(name string) *Builder {
	name = strings.TrimSpace(name)
	b.data.employeeName = &name
	return b
}

func (b *Builder) SetGrossMonthlyIncomeCents(c money.Cents) *Builder {
	b.data.grossMonthlyIncomeCents = &c
	return b
}

func (b *Builder) SetMonthlyIncomeTaxCents(c money.Cents) *Builder {
	b.data.monthlyIncomeTaxCents = &c
	return b
}

func (b *Builder) SetNetMonthlyIncomeCents(c money.Cents) *Builder {
	b.data.netMonthlyIncomeCents = &c
	return b
}

func (b *Builder) SetCurrencyCode(code string) *Builder {
	b.data.currencyCode = &code
	return b
}

func (b *Builder) SetCalculatedAt(t time.Time) *Builder {
	b.data.calculatedAt = &t
	return b
}

func (b *Builder) Build() (Result, error) {
	if err := b.validate(); err != nil {
		return Result{}, err
	}

	d := b.data
	calculatedAt := b.now()
	if d.calculatedAt != nil {
		calculatedAt = *d.calculatedAt
	}

	result := Result{
		EmployeeName:              *d.employeeName,
		GrossMonthlyIncomeCents:   *d.grossMonthlyIncomeCents,
		MonthlyIncomeTaxCents:     *d.monthlyIncomeTaxCents,
		NetMonthlyIncomeCents:     *d.netMonthlyIncomeCents,
		CurrencyCode:              *d.currencyCode,
		CalculatedAt:              calculatedAt,
		GrossMonthlyIncomeDisplay: money.FormatCentsAsDecimal(*d.grossMonthlyIncomeCents),
		MonthlyIncomeTaxDisplay:   money.FormatCentsAsDecimal(*d.monthlyIncomeTaxCents),
		NetMonthlyIncomeDisplay:   money.FormatCentsAsDecimal(*d.netMonthlyIncomeCents),
	}

	b.Reset()
	return result, nil
}

// Reset discards every field set so far.
func (b *Builder) Reset() {
	b.data = buildingData{}
}

func (b *Builder) validate() error {
	d := b.data

	if d.employeeName == nil || *d.employeeName == "" {
		return paysliperrors.ErrEmployeeNameRequired
	}
	if d.grossMonthlyIncomeCents == nil || d.monthlyIncomeTaxCents == nil || d.netMonthlyIncomeCents == nil {
		return paysliperrors.ErrIncomeAmountsRequired
	}
	if d.currencyCode == nil || *d.currencyCode == "" {
		return paysliperrors.ErrCurrencyCodeRequired
	}

	gross, tax, net := *d.grossMonthlyIncomeCents, *d.monthlyIncomeTaxCents, *d.netMonthlyIncomeCents
	if gross < 0 || tax < 0 || net < 0 {
		return paysliperrors.ErrNegativeIncome
	}
	if net != gross-tax {
		return paysliperrors.ErrNetIncomeMismatch
	}

	return nil
}
