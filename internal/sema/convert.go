package sema

import "github.com/solangc/solangc/internal/types"

// ImplicitlyConvertible implements spec §4.5's implicit-conversion rule:
// widening between same-signedness integers, unsigned-to-signed of
// strictly greater width, and between same-shape reference types. Anything
// losing precision or changing signedness the other way requires an
// explicit cast.
func ImplicitlyConvertible(from, to types.Type) bool {
	if from.Equal(to) {
		return true
	}
	switch {
	case from.Kind == types.Uint && to.Kind == types.Uint:
		return to.Width >= from.Width
	case from.Kind == types.Int && to.Kind == types.Int:
		return to.Width >= from.Width
	case from.Kind == types.Uint && to.Kind == types.Int:
		return to.Width > from.Width
	case from.Kind == types.FixedBytes && to.Kind == types.FixedBytes:
		return to.Width >= from.Width
	case from.IsReference() && to.IsReference():
		return from.Kind == to.Kind && from.Elem != nil && to.Elem != nil && from.Elem.Equal(*to.Elem)
	case from.Kind == types.Contract && to.Kind == types.AddressKind:
		return true
	}
	return false
}

// FitsInType reports whether an infinite-precision integer literal with the
// given bit length and sign can be represented in t without truncation — used to let
// an unsuffixed literal implicitly adopt any integer type wide/signed
// enough to hold its value (spec §4.5).
func FitsInType(bitLen int, negative bool, t types.Type) bool {
	switch t.Kind {
	case types.Uint:
		return !negative && bitLen <= t.Width
	case types.Int:
		return bitLen <= t.Width-1 || (negative && bitLen <= t.Width)
	default:
		return false
	}
}
