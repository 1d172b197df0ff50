package pass

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindString
	KindNumber
	KindDate
	KindCurrency
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindCurrency:
		return "currency"
	}
	return "none"
}

// Value is the tagged value of a field: a string, a number, a date or a currency amount.
// The zero Value holds nothing and is rejected by validation.
type Value struct {
	kind     ValueKind
	text     string
	number   float64
	date     time.Time
	amount   decimal.Decimal
	currency string
}

// StringValue returns a string value.
func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

// NumberValue returns a number value.
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, number: n}
}

// DateValue returns a date value truncated to whole seconds.
// A field holding a date must carry a date or time style.
func DateValue(t time.Time) Value {
	return Value{kind: KindDate, date: t.Truncate(time.Second)}
}

// CurrencyValue returns a currency amount with an ISO 4217 code.
// pass.json carries amounts as JSON numbers, so an amount must be exactly representable
// as a float64 (about 15 significant digits); validation rejects amounts that are not.
func CurrencyValue(amount decimal.Decimal, code string) Value {
	return Value{kind: KindCurrency, amount: amount, currency: code}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsZero() bool { return v.kind == KindNone }

// Text returns the string held by a string value.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindString
}

// Number returns the number held by a number value.
func (v Value) Number() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// Date returns the time held by a date value.
func (v Value) Date() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// Currency returns the amount and currency code held by a currency value.
func (v Value) Currency() (decimal.Decimal, string, bool) {
	return v.amount, v.currency, v.kind == KindCurrency
}

// Equal reports whether both values hold the same variant and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.text == o.text
	case KindNumber:
		return v.number == o.number
	case KindDate:
		return v.date.Equal(o.date)
	case KindCurrency:
		return v.currency == o.currency && v.amount.Equal(o.amount)
	}
	return true
}

// String renders the value the way it appears in pass.json.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindDate:
		return v.date.Format(time.RFC3339)
	case KindCurrency:
		return v.amount.String() + " " + v.currency
	}
	return ""
}

// check returns an invalid_value error if f cannot hold v.
func (v Value) check(f *Field) error {
	if reason := v.problem(f); reason != "" {
		return NewInvalidValueError(fmt.Sprintf("field %q: %s", f.Key, reason))
	}
	return nil
}

// problem describes why v cannot be stored in a field with f's presentation.
func (v Value) problem(f *Field) string {
	switch v.kind {
	case KindNone:
		return "value is required"
	case KindString:
		// a dated field reads a timestamp string back as a date
		if f.DateStyle != "" || f.TimeStyle != "" {
			if _, err := ParseTimestamp(v.text); err == nil {
				return "a timestamp on a field with dateStyle or timeStyle must be a date value"
			}
		}
	case KindNumber:
		if math.IsNaN(v.number) || math.IsInf(v.number, 0) {
			return "number must be finite"
		}
	case KindDate:
		if f.DateStyle == "" && f.TimeStyle == "" {
			return "a date value requires dateStyle or timeStyle"
		}
	case KindCurrency:
		if !currencyCodePattern.MatchString(v.currency) {
			return fmt.Sprintf("invalid currency code %q", v.currency)
		}
		if !decimal.NewFromFloat(v.amount.InexactFloat64()).Equal(v.amount) {
			return fmt.Sprintf("amount %s cannot be represented exactly", v.amount)
		}
	}
	return ""
}

// marshalValue returns the JSON literal for "value" and the accompanying currency code.
func (v Value) marshalValue() (json.RawMessage, string, error) {
	switch v.kind {
	case KindString:
		b, err := json.Marshal(v.text)
		return b, "", err
	case KindNumber:
		b, err := json.Marshal(v.number)
		return b, "", err
	case KindDate:
		b, err := json.Marshal(v.date.Format(time.RFC3339))
		return b, "", err
	case KindCurrency:
		return json.RawMessage(v.amount.String()), v.currency, nil
	}
	return nil, "", fmt.Errorf("value is not set")
}

// unmarshalValue rebuilds a Value from pass.json. Dates are only recognised on
// fields with a date or time style, and numbers with a currency code are amounts.
func unmarshalValue(raw json.RawMessage, currencyCode string, dated bool) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Value{}, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		if dated {
			if ts, err := ParseTimestamp(s); err == nil {
				return DateValue(ts.Time), nil
			}
		}
		return StringValue(s), nil
	}
	if currencyCode != "" {
		amount, err := decimal.NewFromString(string(raw))
		if err != nil {
			return Value{}, fmt.Errorf("invalid currency amount %s: %w", raw, err)
		}
		return CurrencyValue(amount, currencyCode), nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return Value{}, fmt.Errorf("value must be a string or a number: %w", err)
	}
	return NumberValue(n), nil
}
