package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// PricePlaces is the number of fractional digits kept for monetary values.
const PricePlaces = 2

// Accepted prices are non-negative, below 1e16 and written with an exponent in
// [minPriceExponent, maxPriceExponent]. Larger exponents make rounding and
// formatting arbitrarily expensive.
const (
	minPriceExponent = -32
	maxPriceExponent = 16
)

var maxPrice = decimal.New(1, maxPriceExponent)

// Price is a fixed-point monetary amount. It is serialized as a two-place
// decimal string ("99.99", "100.00") both on the wire and in the database.
type Price struct {
	decimal.Decimal
}

// NewPrice parses a decimal string into a Price rounded to PricePlaces.
func NewPrice(value string) (Price, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", value, err)
	}
	return Price{Decimal: d.Round(PricePlaces)}, nil
}

// MustPrice is like NewPrice but panics on malformed input.
func MustPrice(value string) Price {
	p, err := NewPrice(value)
	if err != nil {
		panic(err)
	}
	return p
}

// CheckRange reports whether p is an acceptable order price.
func (p Price) CheckRange() error {
	if exp := p.Exponent(); exp < minPriceExponent || exp > maxPriceExponent {
		return fmt.Errorf("must be written with an exponent between %d and %d", minPriceExponent, maxPriceExponent)
	}
	if p.IsNegative() {
		return errors.New("must be non-negative")
	}
	if p.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("must be less than %s", maxPrice.String())
	}
	return nil
}

// Normalize returns the price rounded to PricePlaces.
func (p Price) Normalize() Price {
	return Price{Decimal: p.Round(PricePlaces)}
}

func (p Price) String() string {
	return p.StringFixed(PricePlaces)
}

// MarshalJSON always emits a quoted fixed-point string.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number.
func (p *Price) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	p.Decimal = d
	return nil
}

// Value implements driver.Valuer. Prices are stored as text so that no
// dialect coerces them to floating point.
func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan implements sql.Scanner.
func (p *Price) Scan(value interface{}) error {
	return p.Decimal.Scan(value)
}
