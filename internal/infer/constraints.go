package infer

import (
	"fmt"

	"github.com/tycho-lang/tycho/internal/types"
)

// ConstraintSet is a diagnostic snapshot of the bounds collected for
// one variable: lower bounds (L <: v) and upper bounds (v <: U). It is
// used for early conflict reporting; the solve itself works on the
// live Info records.
type ConstraintSet struct {
	LowerBounds []types.TypeID
	UpperBounds []types.TypeID
}

// AddLowerBound records L <: v, ignoring duplicates.
func (s *ConstraintSet) AddLowerBound(ty types.TypeID) {
	s.LowerBounds = appendTypesDedup(s.LowerBounds, []types.TypeID{ty})
}

// AddUpperBound records v <: U, ignoring duplicates.
func (s *ConstraintSet) AddUpperBound(ty types.TypeID) {
	s.UpperBounds = appendTypesDedup(s.UpperBounds, []types.TypeID{ty})
}

// IsEmpty reports whether no bounds were collected.
func (s *ConstraintSet) IsEmpty() bool {
	return len(s.LowerBounds) == 0 && len(s.UpperBounds) == 0
}

// Merge folds another set's bounds into this one.
func (s *ConstraintSet) Merge(other *ConstraintSet) {
	for _, ty := range other.LowerBounds {
		s.AddLowerBound(ty)
	}
	for _, ty := range other.UpperBounds {
		s.AddUpperBound(ty)
	}
}

// TransitiveReduction drops upper bounds implied by stricter ones: if
// v <: A and A <: B, then v <: B is redundant. Cuts the pairwise work
// in DetectConflicts.
func (s *ConstraintSet) TransitiveReduction(in *types.Interner) {
	s.UpperBounds = reduceUpperBounds(in, s.UpperBounds)
}

func reduceUpperBounds(in *types.Interner, bounds []types.TypeID) []types.TypeID {
	if len(bounds) < 2 {
		return bounds
	}
	redundant := make(map[types.TypeID]bool)
	for i, u1 := range bounds {
		for j, u2 := range bounds {
			if i == j || redundant[u1] || redundant[u2] {
				continue
			}
			if types.IsSubtype(in, u1, u2) {
				redundant[u2] = true
			}
		}
	}
	if len(redundant) == 0 {
		return bounds
	}
	out := bounds[:0]
	for _, b := range bounds {
		if !redundant[b] {
			out = append(out, b)
		}
	}
	return out
}

// ConflictKind classifies an early constraint conflict.
type ConflictKind uint8

const (
	// ConflictDisjointUpperBounds - two upper bounds have no common
	// inhabitant (e.g. string and number).
	ConflictDisjointUpperBounds ConflictKind = iota
	// ConflictLowerExceedsUpper - a lower bound is not assignable to
	// an upper bound.
	ConflictLowerExceedsUpper
)

// ConstraintConflict describes a conflict found by DetectConflicts.
type ConstraintConflict struct {
	Kind  ConflictKind
	First types.TypeID
	Other types.TypeID
}

func (c *ConstraintConflict) String() string {
	switch c.Kind {
	case ConflictDisjointUpperBounds:
		return fmt.Sprintf("disjoint upper bounds: %d and %d", c.First, c.Other)
	default:
		return fmt.Sprintf("lower bound %d exceeds upper bound %d", c.First, c.Other)
	}
}

// DetectConflicts looks for contradictions between collected bounds so
// callers can fail before full resolution: mutually exclusive upper
// bounds, or a lower bound no upper bound admits. Error and any are
// ignored; they would only produce cascading noise.
func (s *ConstraintSet) DetectConflicts(in *types.Interner) *ConstraintConflict {
	reduced := make([]types.TypeID, len(s.UpperBounds))
	copy(reduced, s.UpperBounds)
	reduced = reduceUpperBounds(in, reduced)

	for i, u1 := range reduced {
		for _, u2 := range reduced[i+1:] {
			if areDisjoint(in, u1, u2) {
				return &ConstraintConflict{Kind: ConflictDisjointUpperBounds, First: u1, Other: u2}
			}
		}
	}

	for _, lower := range s.LowerBounds {
		for _, upper := range reduced {
			if lower == types.Error || upper == types.Error ||
				lower == types.Any || upper == types.Any {
				continue
			}
			if !types.IsSubtype(in, lower, upper) {
				return &ConstraintConflict{Kind: ConflictLowerExceedsUpper, First: lower, Other: upper}
			}
		}
	}
	return nil
}

// areDisjoint reports whether two types definitely share no
// inhabitant. Only primitive/literal pairs are decided; anything
// structural is assumed overlapping.
func areDisjoint(in *types.Interner, a, b types.TypeID) bool {
	if a == b || a.IsAnyOrUnknown() || b.IsAnyOrUnknown() {
		return false
	}
	da, db := in.Lookup(a), in.Lookup(b)
	switch x := da.(type) {
	case types.Intrinsic:
		switch y := db.(type) {
		case types.Intrinsic:
			if x.Kind == types.KindObject || x.Kind == types.KindFunction ||
				y.Kind == types.KindObject || y.Kind == types.KindFunction {
				return false
			}
			return x.Kind != y.Kind
		case types.Literal:
			return !literalFitsIntrinsic(y.Value, x.Kind)
		}
	case types.Literal:
		switch y := db.(type) {
		case types.Literal:
			return x.Value != y.Value
		case types.Intrinsic:
			return !literalFitsIntrinsic(x.Value, y.Kind)
		}
	}
	return false
}

func literalFitsIntrinsic(lit types.LiteralValue, kind types.IntrinsicKind) bool {
	switch lit.Kind {
	case types.LiteralString:
		return kind == types.KindString
	case types.LiteralNumber:
		return kind == types.KindNumber
	case types.LiteralBigint:
		return kind == types.KindBigint
	case types.LiteralBoolean:
		return kind == types.KindBoolean
	}
	return false
}
