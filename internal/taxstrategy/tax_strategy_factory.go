package taxstrategy

import (
	taxstrategyerrors "github.com/wcewong/paygen/internal/taxstrategy/errors"
)

// Bracket tables in cents.
var (
	defaultBrackets = []TaxBracket{
		{MinCents: 0, MaxCents: Cap(2000000), Rate: 0},
		{MinCents: 2000000, MaxCents: Cap(4000000), Rate: 0.10},
		{MinCents: 4000000, MaxCents: Cap(8000000), Rate: 0.20},
		{MinCents: 8000000, MaxCents: Cap(18000000), Rate: 0.30},
		{MinCents: 18000000, Rate: 0.40},
	}

	alternativeBrackets = []TaxBracket{
		{MinCents: 0, MaxCents: Cap(3000000), Rate: 0.05},
		{MinCents: 3000000, MaxCents: Cap(7000000), Rate: 0.15},
		{MinCents: 7000000, Rate: 0.25},
	}
)

type Factory interface {
	CreateDefaultStrategy() Strategy
	CreateAlternativeStrategy() Strategy
	CreateCustomStrategy(brackets []TaxBracket) (Strategy, error)
	CreateFlatTaxStrategy(rate float64) (Strategy, error)
}

type factory struct{}

func NewFactory() Factory {
	return factory{}
}

// CreateDefaultStrategy returns a new instance on every call.
func (factory) CreateDefaultStrategy() Strategy {
	return newProgressiveStrategy(KindDefault, defaultBrackets)
}

func (factory) CreateAlternativeStrategy() Strategy {
	return newProgressiveStrategy(KindAlternative, alternativeBrackets)
}

func (factory) CreateCustomStrategy(brackets []TaxBracket) (Strategy, error) {
	if err := ValidateBrackets(brackets); err != nil {
		return nil, err
	}
	return newProgressiveStrategy(KindCustom, brackets), nil
}

// CreateFlatTaxStrategy is the single unbounded bracket case.
func (factory) CreateFlatTaxStrategy(rate float64) (Strategy, error) {
	if rate < 0 || rate > 1 {
		return nil, taxstrategyerrors.ErrInvalidFlatTaxRate
	}
	return newProgressiveStrategy(KindFlat, []TaxBracket{{MinCents: 0, Rate: rate}}), nil
}
