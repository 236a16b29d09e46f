package taxstrategy

import (
	taxstrategyerrors "github.com/wcewong/paygen/internal/taxstrategy/errors"

	"github.com/wcewong/paygen/internal/shared/money"
)

const StrategyName = "Progressive Tax Strategy"

// Kind records which factory path produced a strategy.
type Kind string

const (
	KindDefault     Kind = "default"
	KindAlternative Kind = "alternative"
	KindCustom      Kind = "custom"
	KindFlat        Kind = "flat"
)

func (k Kind) Valid() bool {
	switch k {
	case KindDefault, KindAlternative, KindCustom, KindFlat:
		return true
	}
	return false
}

// Strategy computes annual tax liability. Implementations are immutable and
// safe for concurrent use.
type Strategy interface {
	CalculateAnnualTaxCents(annualSalaryCents money.Cents) (money.Cents, error)
	StrategyName() string
	Kind() Kind
	// Brackets returns a copy; mutating it does not affect the strategy.
	Brackets() []TaxBracket
}

type progressiveStrategy struct {
	kind     Kind
	brackets []TaxBracket
}

// newProgressiveStrategy assumes brackets were already validated.
func newProgressiveStrategy(kind Kind, brackets []TaxBracket) *progressiveStrategy {
	return &progressiveStrategy{kind: kind, brackets: copyBrackets(brackets)}
}

func (s *progressiveStrategy) CalculateAnnualTaxCents(salary money.Cents) (money.Cents, error) {
	if salary < 0 {
		return 0, taxstrategyerrors.ErrNegativeSalary
	}
	if salary == 0 {
		return 0, nil
	}

	var total money.Cents
	for _, b := range s.brackets {
		if salary <= b.MinCents {
			continue
		}

		ceiling := salary
		if b.MaxCents != nil && *b.MaxCents < ceiling {
			ceiling = *b.MaxCents
		}

		taxable := ceiling - b.MinCents
		if taxable <= 0 {
			continue
		}

		// Rounded per bracket, never on the sum.
		total += money.CalculatePercentage(taxable, b.Rate)
	}

	return total, nil
}

func (s *progressiveStrategy) StrategyName() string {
	return StrategyName
}

func (s *progressiveStrategy) Kind() Kind {
	return s.kind
}

func (s *progressiveStrategy) Brackets() []TaxBracket {
	return copyBrackets(s.brackets)
}
