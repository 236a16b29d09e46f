package events

import "time"

const PayslipRequestedTopic = "paygen.payslip.requested.v1"

// PayslipRequestedEvent asks the consumer to generate and persist a payslip.
type PayslipRequestedEvent struct {
	EventType         string    `json:"event_type"`
	RequestID         string    `json:"request_id,omitempty"`
	EmployeeName      string    `json:"employee_name"`
	AnnualSalaryCents int64     `json:"annual_salary_cents"`
	CurrencyCode      string    `json:"currency_code,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}
