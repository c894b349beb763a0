package number

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrParityMismatch is returned by Validate when the parity flag disagrees
// with the stored value.
var ErrParityMismatch = errors.New("parity flag does not match value")

// Number is a signed integer with a precomputed parity flag.
type Number struct {
	Value int64 `json:"value"`
	Odd   bool  `json:"odd"`
}

// New returns a Number whose parity flag is derived from v.
func New(v int64) Number {
	return Number{Value: v, Odd: IsOdd(v)}
}

// Construct stores value and odd verbatim. No validation is performed;
// callers that cannot vouch for the pair should call Validate.
func Construct(value int64, odd bool) Number {
	return Number{Value: value, Odd: odd}
}

// IsPositive reports whether the value is strictly greater than zero.
func (n Number) IsPositive() bool {
	return n.Value > 0
}

// IsNegative reports whether the value is strictly less than zero.
func (n Number) IsNegative() bool {
	return n.Value < 0
}

// Negate returns a new Number holding the additive inverse of the value.
// The parity flag is copied unchanged. The receiver is not modified.
//
// math.MinInt64 has no positive counterpart and negates to itself.
func (n Number) Negate() Number {
	return Number{Value: -n.Value, Odd: n.Odd}
}

// Invert negates the value in place.
func (n *Number) Invert() {
	n.Value = -n.Value
}

// Clone returns an independent duplicate of n.
func (n Number) Clone() Number {
	return Number{Value: n.Value, Odd: n.Odd}
}

// WithValue returns a copy of n holding v, with parity derived from v.
func (n Number) WithValue(v int64) Number {
	return New(v)
}

// Parity returns "odd" or "even" according to the stored flag.
func (n Number) Parity() string {
	if n.Odd {
		return "odd"
	}
	return "even"
}

// Describe renders the number as "<odd|even> number <value>".
func (n Number) Describe() string {
	return n.Parity() + " number " + strconv.FormatInt(n.Value, 10)
}

// String implements fmt.Stringer.
func (n Number) String() string {
	return n.Describe()
}

// Spell names the first two positive integers and falls back to the
// decimal value for everything else.
func (n Number) Spell() string {
	switch n.Value {
	case 1:
		return "One"
	case 2:
		return "Two"
	default:
		return strconv.FormatInt(n.Value, 10)
	}
}

// Consistent reports whether the parity flag matches the value.
func (n Number) Consistent() bool {
	return n.Odd == IsOdd(n.Value)
}

// Validate returns ErrParityMismatch if the parity flag is wrong.
func (n Number) Validate() error {
	if !n.Consistent() {
		return fmt.Errorf("value %d with odd=%t: %w", n.Value, n.Odd, ErrParityMismatch)
	}
	return nil
}

// CanonicalMap presents n for canonical encoding.
func (n Number) CanonicalMap() map[string]any {
	return map[string]any{"value": n.Value, "odd": n.Odd}
}

// UnmarshalJSON decodes {"value":N,"odd":B}. The value is required; a
// missing odd field is derived from the value.
func (n *Number) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value *int64 `json:"value"`
		Odd   *bool  `json:"odd"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Value == nil {
		return fmt.Errorf("number: missing required field %q", "value")
	}
	if raw.Odd == nil {
		*n = New(*raw.Value)
		return nil
	}
	*n = Construct(*raw.Value, *raw.Odd)
	return nil
}
