package payslip

import (
	"fmt"
	"io"
)

// WritePayslip renders the four-line console payslip.
func WritePayslip(w io.Writer, r Result) error {
	_, err := fmt.Fprintf(w,
		"Monthly Payslip for: %q\nGross Monthly Income: $%s\nMonthly Income Tax: $%s\nNet Monthly Income: $%s\n",
		r.EmployeeName,
		r.GrossMonthlyIncomeDisplay,
		r.MonthlyIncomeTaxDisplay,
		r.NetMonthlyIncomeDisplay,
	)
	return err
}
