package taxstrategy

import (
	taxstrategyerrors "github.com/wcewong/paygen/internal/taxstrategy/errors"

	"github.com/wcewong/paygen/internal/shared/apperror"
	"github.com/wcewong/paygen/internal/shared/money"
)

// TaxBracket taxes the slice of salary between MinCents and MaxCents at Rate.
// A nil MaxCents means the bracket has no ceiling.
type TaxBracket struct {
	MinCents money.Cents
	MaxCents *money.Cents
	Rate     float64
}

// Bounded reports whether the bracket has a ceiling.
func (b TaxBracket) Bounded() bool {
	return b.MaxCents != nil
}

// Cap returns a pointer to c, for building bounded brackets inline.
func Cap(c money.Cents) *money.Cents {
	return &c
}

// ValidateBrackets checks brackets in order and reports the first failing index.
// Contiguity and ordering are not enforced.
func ValidateBrackets(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return taxstrategyerrors.ErrEmptyBrackets
	}

	for i, b := range brackets {
		if err := validateBracket(b); err != nil {
			return apperror.Invalid(err, "invalid tax bracket at index %d", i)
		}
	}

	return nil
}

func validateBracket(b TaxBracket) error {
	switch {
	case b.MinCents < 0:
		return taxstrategyerrors.ErrNegativeMinimum
	case b.Rate < 0:
		return taxstrategyerrors.ErrNegativeRate
	case b.Rate > 1:
		return taxstrategyerrors.ErrRateAboveOne
	case b.MaxCents != nil && b.MinCents > *b.MaxCents:
		return taxstrategyerrors.ErrMinimumAboveMaximum
	}
	return nil
}

func copyBrackets(brackets []TaxBracket) []TaxBracket {
	out := make([]TaxBracket, len(brackets))
	for i, b := range brackets {
		out[i] = TaxBracket{MinCents: b.MinCents, Rate: b.Rate}
		if b.MaxCents != nil {
			out[i].MaxCents = Cap(*b.MaxCents)
		}
	}
	return out
}
