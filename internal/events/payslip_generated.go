package events

import "time"

const (
	PayslipGeneratedTopic     = "paygen.payslip.generated.v1"
	PayslipGeneratedEventType = "payslip_generated"
)

// PayslipGeneratedEvent is published through the outbox after a payslip is persisted.
type PayslipGeneratedEvent struct {
	EventType               string    `json:"event_type"`
	RequestID               string    `json:"request_id,omitempty"`
	PayslipID               string    `json:"payslip_id"`
	EmployeeName            string    `json:"employee_name"`
	AnnualSalaryCents       int64     `json:"annual_salary_cents"`
	GrossMonthlyIncomeCents int64     `json:"gross_monthly_income_cents"`
	MonthlyIncomeTaxCents   int64     `json:"monthly_income_tax_cents"`
	NetMonthlyIncomeCents   int64     `json:"net_monthly_income_cents"`
	CurrencyCode            string    `json:"currency_code"`
	TaxStrategy             string    `json:"tax_strategy"`
	OccurredAt              time.Time `json:"occurred_at"`
}
