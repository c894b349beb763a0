package number

// Signed is implemented by anything that can report a strictly negative sign.
type Signed interface {
	IsNegative() bool
}

// HasSign extends Signed with a strictly positive check.
type HasSign interface {
	Signed
	IsPositive() bool
}

// Integer is the set of built-in signed integer kinds.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// IsNegative reports whether v < 0.
func IsNegative[T Integer](v T) bool {
	return v < 0
}

// IsPositive reports whether v > 0.
func IsPositive[T Integer](v T) bool {
	return v > 0
}

// IsOdd reports whether v is odd. Negative odd values are odd too.
func IsOdd[T Integer](v T) bool {
	return v%2 != 0
}

// Int is a plain int64 that satisfies HasSign.
type Int int64

// IsNegative reports whether i < 0.
func (i Int) IsNegative() bool {
	return IsNegative(i)
}

// IsPositive reports whether i > 0.
func (i Int) IsPositive() bool {
	return IsPositive(i)
}

// Sign returns -1, 0 or 1.
func Sign(h HasSign) int {
	switch {
	case h.IsNegative():
		return -1
	case h.IsPositive():
		return 1
	default:
		return 0
	}
}

var (
	_ HasSign = Number{}
	_ HasSign = Int(0)
)
