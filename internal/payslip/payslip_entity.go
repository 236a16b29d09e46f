package payslip

import (
	"time"

	"github.com/google/uuid"

	"github.com/wcewong/paygen/internal/shared/money"
)

// PayslipCalculation is one persisted salary computation. Amounts are cents.
type PayslipCalculation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeName string    `gorm:"type:varchar(255);not null;index:idx_payslip_employee_created,priority:1"`

	AnnualSalaryCents       int64 `gorm:"type:bigint;not null;index"`
	MonthlyIncomeTaxCents   int64 `gorm:"type:bigint;not null"`
	GrossMonthlyIncomeCents int64 `gorm:"type:bigint;not null"`
	NetMonthlyIncomeCents   int64 `gorm:"type:bigint;not null"`

	TaxStrategyUsed *string `gorm:"type:varchar(100)"`
	CurrencyCode    string  `gorm:"type:varchar(3);not null;default:'MYR'"`

	CreatedAt time.Time `gorm:"index:idx_payslip_employee_created,priority:2"`
	UpdatedAt time.Time
}

func (PayslipCalculation) TableName() string {
	return "payslip_calculations"
}

// Record is the read model returned by the service.
type Record struct {
	ID                      uuid.UUID
	Timestamp               time.Time
	EmployeeName            string
	AnnualSalaryCents       money.Cents
	MonthlyIncomeTaxCents   money.Cents
	GrossMonthlyIncomeCents money.Cents
	NetMonthlyIncomeCents   money.Cents
	CurrencyCode            string
	TaxStrategyUsed         string
}

func (p PayslipCalculation) toRecord() Record {
	r := Record{
		ID:                      p.ID,
		Timestamp:               p.CreatedAt,
		EmployeeName:            p.EmployeeName,
		AnnualSalaryCents:       money.Cents(p.AnnualSalaryCents),
		MonthlyIncomeTaxCents:   money.Cents(p.MonthlyIncomeTaxCents),
		GrossMonthlyIncomeCents: money.Cents(p.GrossMonthlyIncomeCents),
		NetMonthlyIncomeCents:   money.Cents(p.NetMonthlyIncomeCents),
		CurrencyCode:            p.CurrencyCode,
	}
	if p.TaxStrategyUsed != nil {
		r.TaxStrategyUsed = *p.TaxStrategyUsed
	}
	return r
}

func toRecords(items []PayslipCalculation) []Record {
	out := make([]Record, 0, len(items))
	for _, it := range items {
		out = append(out, it.toRecord())
	}
	return out
}
