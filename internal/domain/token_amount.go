package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// TokenAmount is a token quantity in 18-decimal base units, backed by big.Int.
// Supplies reach 10^23 base units, so it is stored as a decimal string column
// and serialized to JSON as a string (JSON numbers lose precision past 2^53).
type TokenAmount struct {
	v big.Int
}

// tokenUnit is 10^18 base units per whole token.
var tokenUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// WholeTokens returns n whole tokens as a TokenAmount (n * 10^18 base units).
func WholeTokens(n int64) TokenAmount {
	var t TokenAmount
	t.v.Mul(big.NewInt(n), tokenUnit)
	return t
}

// ParseTokenAmount parses a base-10 string of base units.
func ParseTokenAmount(s string) (TokenAmount, error) {
	var t TokenAmount
	if _, ok := t.v.SetString(s, 10); !ok {
		return TokenAmount{}, fmt.Errorf("invalid token amount %q", s)
	}
	return t, nil
}

func (t TokenAmount) Add(o TokenAmount) TokenAmount {
	var r TokenAmount
	r.v.Add(&t.v, &o.v)
	return r
}

func (t TokenAmount) Sub(o TokenAmount) TokenAmount {
	var r TokenAmount
	r.v.Sub(&t.v, &o.v)
	return r
}

// Percent returns floor(t * num / den). Both operands must be non-negative.
func (t TokenAmount) Percent(num, den int64) TokenAmount {
	var r TokenAmount
	r.v.Mul(&t.v, big.NewInt(num))
	r.v.Quo(&r.v, big.NewInt(den))
	return r
}

func (t TokenAmount) Cmp(o TokenAmount) int {
	return t.v.Cmp(&o.v)
}

func (t TokenAmount) Sign() int {
	return t.v.Sign()
}

func (t TokenAmount) IsZero() bool {
	return t.v.Sign() == 0
}

func (t TokenAmount) String() string {
	return t.v.String()
}

// MaxTokenAmount returns the larger of a and b.
func MaxTokenAmount(a, b TokenAmount) TokenAmount {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Scan implements sql.Scanner for reading from DB (string column).
func (t *TokenAmount) Scan(value interface{}) error {
	if value == nil {
		t.v.SetInt64(0)
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return t.set(string(v))
	case string:
		return t.set(v)
	case int64:
		t.v.SetInt64(v)
		return nil
	default:
		return errors.New("unsupported type for TokenAmount")
	}
}

func (t *TokenAmount) set(s string) error {
	if s == "" {
		t.v.SetInt64(0)
		return nil
	}
	if _, ok := t.v.SetString(s, 10); !ok {
		return fmt.Errorf("invalid token amount %q", s)
	}
	return nil
}

// Value implements driver.Valuer for writing to DB.
func (t TokenAmount) Value() (driver.Value, error) {
	return t.v.String(), nil
}

// MarshalJSON sends the amount as a string, e.g. "690000000000000000000000".
func (t TokenAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.v.String())
}

// UnmarshalJSON accepts both string and number forms from request bodies.
func (t *TokenAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// bare number without quotes
		return t.set(string(data))
	}
	return t.set(s)
}
