package payslip

import (
	"time"

	"github.com/wcewong/paygen/internal/shared/money"
	"github.com/wcewong/paygen/internal/taxstrategy"
)

type GeneratePayslipRequest struct {
	EmployeeName string  `json:"employee_name" binding:"required"`
	AnnualSalary float64 `json:"annual_salary" binding:"required,gt=0"`
	CurrencyCode string  `json:"currency_code" binding:"omitempty,len=3"`
}

type PayslipResponse struct {
	EmployeeName       string `json:"employee_name"`
	GrossMonthlyIncome string `json:"gross_monthly_income"`
	MonthlyIncomeTax   string `json:"monthly_income_tax"`
	NetMonthlyIncome   string `json:"net_monthly_income"`
	CurrencyCode       string `json:"currency_code"`
}

type SalaryComputationResponse struct {
	TimeStamp        string `json:"time_stamp"`
	EmployeeName     string `json:"employee_name"`
	AnnualSalary     string `json:"annual_salary"`
	MonthlyIncomeTax string `json:"monthly_income_tax"`
}

type SalaryComputationsResponse struct {
	SalaryComputations []SalaryComputationResponse `json:"salary_computations"`
}

type GetSalaryComputationsFilterRequest struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page" binding:"omitempty,gte=1"`
	PageSize int    `form:"page_size" binding:"omitempty,gte=1"`
}

// TaxBracketDTO carries amounts in dollars. A nil Max is unbounded.
type TaxBracketDTO struct {
	Min  float64  `json:"min"`
	Max  *float64 `json:"max"`
	Rate float64  `json:"rate"`
}

type TaxStrategyResponse struct {
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Brackets []TaxBracketDTO `json:"brackets"`
}

type SwitchTaxStrategyRequest struct {
	Kind     string          `json:"kind" binding:"required,oneof=default alternative custom flat"`
	Rate     *float64        `json:"rate"`
	Brackets []TaxBracketDTO `json:"brackets"`
}

func mapToPayslipResponse(r Result) PayslipResponse {
	return PayslipResponse{
		EmployeeName:       r.EmployeeName,
		GrossMonthlyIncome: r.GrossMonthlyIncomeDisplay,
		MonthlyIncomeTax:   r.MonthlyIncomeTaxDisplay,
		NetMonthlyIncome:   r.NetMonthlyIncomeDisplay,
		CurrencyCode:       r.CurrencyCode,
	}
}

func mapToSalaryComputations(records []Record) SalaryComputationsResponse {
	items := make([]SalaryComputationResponse, 0, len(records))
	for _, r := range records {
		items = append(items, SalaryComputationResponse{
			TimeStamp:        r.Timestamp.UTC().Format(time.RFC3339),
			EmployeeName:     r.EmployeeName,
			AnnualSalary:     money.FormatCentsAsDecimal(r.AnnualSalaryCents),
			MonthlyIncomeTax: money.FormatCentsAsDecimal(r.MonthlyIncomeTaxCents),
		})
	}
	return SalaryComputationsResponse{SalaryComputations: items}
}

func mapToTaxStrategyResponse(s taxstrategy.Strategy) TaxStrategyResponse {
	brackets := s.Brackets()
	out := make([]TaxBracketDTO, 0, len(brackets))
	for _, b := range brackets {
		dto := TaxBracketDTO{Min: money.CentsToDollars(b.MinCents), Rate: b.Rate}
		if b.MaxCents != nil {
			ceiling := money.CentsToDollars(*b.MaxCents)
			dto.Max = &ceiling
		}
		out = append(out, dto)
	}

	return TaxStrategyResponse{
		Name:     s.StrategyName(),
		Kind:     string(s.Kind()),
		Brackets: out,
	}
}

func mapToTaxBrackets(dtos []TaxBracketDTO) []taxstrategy.TaxBracket {
	out := make([]taxstrategy.TaxBracket, 0, len(dtos))
	for _, d := range dtos {
		b := taxstrategy.TaxBracket{MinCents: money.DollarsToCents(d.Min), Rate: d.Rate}
		if d.Max != nil {
			b.MaxCents = taxstrategy.Cap(money.DollarsToCents(*d.Max))
		}
		out = append(out, b)
	}
	return out
}
