package model

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/recipebox/recipebox-api/internal/validation"
)

// MaxPrice is the exclusive upper bound of a recipe price (DECIMAL(5,2)).
const MaxPrice Price = 100000

var ErrInvalidPrice = errors.New("invalid price")

// Price is a decimal amount with two fractional digits, stored in hundredths.
// It encodes to JSON as a string ("5.00") and decodes from a number or string.
type Price int64

// ParsePrice parses a plain decimal such as "5", "5.5", "12.34" or "5.000".
// Digits past the second decimal place must be zeros.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" && (!hasDot || frac == "") {
		return 0, ErrInvalidPrice
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, ErrInvalidPrice
	}
	if len(frac) > 2 {
		if strings.TrimRight(frac[2:], "0") != "" {
			return 0, fmt.Errorf("%w: more than 2 decimal places", ErrInvalidPrice)
		}
		frac = frac[:2]
	}

	frac += strings.Repeat("0", 2-len(frac))
	if whole == "" {
		whole = "0"
	}
	n, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	if neg {
		n = -n
	}
	return Price(n), nil
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (p Price) String() string {
	sign := ""
	n := int64(p)
	if n < 0 {
		sign = "-"
		n = -n
	}
	return fmt.Sprintf("%s%d.%02d", sign, n/100, n%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	if raw == "null" {
		return validation.Field("price", "is required", ErrInvalidPrice)
	}
	parsed, err := ParsePrice(raw)
	if err != nil {
		return validation.Field("price", "must be a decimal with at most 2 decimal places", err)
	}
	*p = parsed
	return nil
}

// Scan accepts the DECIMAL text MySQL returns and the numeric values SQLite returns.
func (p *Price) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		parsed, err := ParsePrice(string(v))
		if err != nil {
			return err
		}
		*p = parsed
	case string:
		parsed, err := ParsePrice(v)
		if err != nil {
			return err
		}
		*p = parsed
	case int64:
		*p = Price(v * 100)
	case float64:
		*p = Price(math.Round(v * 100))
	default:
		return fmt.Errorf("cannot scan %T into Price", src)
	}
	return nil
}

func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}
