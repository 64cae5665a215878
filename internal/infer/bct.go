package infer

import (
	"github.com/tycho-lang/tycho/internal/types"
)

// BestCommonType picks the most specific type that is a supertype of
// every candidate. Array literals, conditional expressions and merged
// inference candidates all funnel through here.
//
// Order of attempts: a shared base (string for string literals, a
// shared superclass for nominal types), then a candidate that already
// covers the rest, then a common base class, then the union.
func (c *Context) BestCommonType(candidates []types.TypeID) types.TypeID {
	if len(candidates) == 0 {
		return types.Unknown
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	// Homogeneous fast path for literals like [1, 2, 3].
	first := candidates[0]
	homogeneous := true
	for _, ty := range candidates[1:] {
		if ty != first {
			homogeneous = false
			break
		}
	}
	if homogeneous {
		return first
	}

	seen := make(map[types.TypeID]bool, len(candidates))
	unique := make([]types.TypeID, 0, len(candidates))
	hasAny := false
	for _, ty := range candidates {
		if ty == types.Any {
			hasAny = true
		}
		if ty == types.Never {
			// never contributes nothing to a union.
			continue
		}
		if !seen[ty] {
			seen[ty] = true
			unique = append(unique, ty)
		}
	}
	if hasAny {
		return types.Any
	}
	if len(unique) == 0 {
		return types.Never
	}
	if len(unique) == 1 {
		return unique[0]
	}

	if base, ok := c.findCommonBaseType(unique); ok {
		return base
	}

	// Tournament reduction: one linear pass finds the only possible
	// supertype candidate, a second pass verifies it.
	best := unique[0]
	for _, cand := range unique[1:] {
		if c.isSubtype(best, cand) {
			best = cand
		}
	}
	if c.isSuitableCommonType(best, unique) {
		return best
	}

	if common, ok := c.findCommonBaseClass(unique); ok {
		return common
	}

	return c.in.NewUnion(unique)
}

// findCommonBaseType reports a base every candidate shares, e.g.
// [string, "hello"] share string.
func (c *Context) findCommonBaseType(candidates []types.TypeID) (types.TypeID, bool) {
	if len(candidates) == 0 {
		return types.None, false
	}
	first, ok := c.baseTypeOf(candidates[0])
	if !ok {
		return types.None, false
	}
	for _, ty := range candidates[1:] {
		base, ok := c.baseTypeOf(ty)
		if !ok || base != first {
			return types.None, false
		}
	}
	return first, true
}

// baseTypeOf widens a literal to its primitive and asks the resolver
// for the base of a nominal reference. Everything else is its own
// base.
func (c *Context) baseTypeOf(ty types.TypeID) (types.TypeID, bool) {
	switch c.in.Lookup(ty).(type) {
	case types.Literal:
		if base := types.BaseType(c.in, ty); base != types.None {
			return base, true
		}
		return ty, true
	case types.Lazy:
		if c.resolver != nil {
			if bases := c.resolver.BaseTypes(ty); len(bases) > 0 {
				return bases[0], true
			}
			return types.None, false
		}
		return ty, true
	default:
		return ty, true
	}
}

// findCommonBaseClass looks for a shared superclass so [Dog, Cat]
// yields Animal rather than Dog | Cat. The first candidate's hierarchy
// seeds the search; the rest only run cached subtype checks against
// it.
func (c *Context) findCommonBaseClass(candidates []types.TypeID) (types.TypeID, bool) {
	if len(candidates) < 2 {
		return types.None, false
	}
	bases := c.classHierarchy(candidates[0])
	if len(bases) == 0 {
		return types.None, false
	}
	for _, ty := range candidates[1:] {
		kept := bases[:0]
		for _, base := range bases {
			if c.isSubtype(ty, base) {
				kept = append(kept, base)
			}
		}
		bases = kept
		if len(bases) == 0 {
			return types.None, false
		}
	}
	return bases[0], true
}

// classHierarchy lists a type and its bases, most derived first.
func (c *Context) classHierarchy(ty types.TypeID) []types.TypeID {
	var hierarchy []types.TypeID
	c.collectClassHierarchy(ty, &hierarchy)
	return hierarchy
}

func (c *Context) collectClassHierarchy(ty types.TypeID, hierarchy *[]types.TypeID) {
	for _, seen := range *hierarchy {
		if seen == ty {
			return
		}
	}
	*hierarchy = append(*hierarchy, ty)

	switch d := c.in.Lookup(ty).(type) {
	case types.Intersection:
		// A & B contributes both members, so [A & B, A & C] can still
		// meet at A.
		for _, m := range d.Members {
			c.collectClassHierarchy(m, hierarchy)
		}
	case types.Lazy, types.Callable, types.Object:
		if base, ok := c.extendsClause(ty); ok {
			c.collectClassHierarchy(base, hierarchy)
		}
	}
}

// extendsClause asks the resolver for a nominal base class.
func (c *Context) extendsClause(ty types.TypeID) (types.TypeID, bool) {
	if c.resolver == nil {
		return types.None, false
	}
	bases := c.resolver.BaseTypes(ty)
	if len(bases) == 0 {
		return types.None, false
	}
	return bases[0], true
}

func (c *Context) isSuitableCommonType(candidate types.TypeID, candidates []types.TypeID) bool {
	for _, ty := range candidates {
		if !c.isSubtype(ty, candidate) {
			return false
		}
	}
	return true
}
