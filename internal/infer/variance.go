package infer

import (
	"github.com/tycho-lang/tycho/internal/types"
)

// Variance describes how a type parameter is used within a type.
type Variance uint8

const (
	VarianceUnused Variance = iota
	VarianceCovariant
	VarianceContravariant
	VarianceInvariant
	VarianceBivariant
)

func (v Variance) String() string {
	switch v {
	case VarianceCovariant:
		return "covariant"
	case VarianceContravariant:
		return "contravariant"
	case VarianceInvariant:
		return "invariant"
	case VarianceBivariant:
		return "bivariant"
	default:
		return "unused"
	}
}

// VarianceCounts tallies the positions a parameter occurs in.
type VarianceCounts struct {
	Covariant     uint32
	Contravariant uint32
	Invariant     uint32
	Bivariant     uint32
}

type varianceState struct {
	targetParam string
	counts      *VarianceCounts
}

// ComputeVariance counts the covariant and contravariant occurrences
// of targetParam within ty. Output positions keep the current
// polarity, input positions (function parameters, write types,
// conditional check/extends) flip it.
func (c *Context) ComputeVariance(ty types.TypeID, targetParam string) VarianceCounts {
	var counts VarianceCounts
	st := &varianceState{targetParam: targetParam, counts: &counts}
	c.computeVariance(ty, true, st)
	return counts
}

func (c *Context) computeVariance(ty types.TypeID, polarity bool, st *varianceState) {
	switch d := c.in.Lookup(ty).(type) {
	case types.TypeParameter:
		if d.Info.Name != st.targetParam {
			return
		}
		if polarity {
			st.counts.Covariant++
		} else {
			st.counts.Contravariant++
		}
	case types.Array:
		c.computeVariance(d.Elem, polarity, st)
	case types.Tuple:
		for _, e := range d.Elems {
			c.computeVariance(e.Type, polarity, st)
		}
	case types.Union:
		for _, m := range d.Members {
			c.computeVariance(m, polarity, st)
		}
	case types.Intersection:
		for _, m := range d.Members {
			c.computeVariance(m, polarity, st)
		}
	case types.Object:
		for _, p := range d.Properties {
			// Read position is covariant; a distinct mutable write
			// type is a separate contravariant occurrence.
			c.computeVariance(p.Type, polarity, st)
			if p.WriteType != p.Type && !p.Readonly {
				c.computeVariance(p.WriteType, !polarity, st)
			}
		}
		for _, sig := range []*types.IndexSignature{d.StringIndex, d.NumberIndex} {
			if sig != nil {
				c.computeVariance(sig.Value, polarity, st)
			}
		}
	case types.Application:
		// Without the generic's declared variance, arguments are
		// treated as covariant.
		for _, arg := range d.Args {
			c.computeVariance(arg, polarity, st)
		}
	case types.Function:
		for _, p := range d.Shape.Params {
			c.computeVariance(p.Type, !polarity, st)
		}
		if d.Shape.Return != types.None {
			c.computeVariance(d.Shape.Return, polarity, st)
		}
	case types.Conditional:
		// Check and extends are matching positions, not flow
		// positions.
		c.computeVariance(d.Check, false, st)
		c.computeVariance(d.Extends, false, st)
		c.computeVariance(d.True, polarity, st)
		c.computeVariance(d.False, polarity, st)
	}
}

// ClassifyVariance reduces the counts for targetParam in ty to a
// single classification. Appearing in both polarities makes the
// parameter invariant.
func (c *Context) ClassifyVariance(ty types.TypeID, targetParam string) Variance {
	counts := c.ComputeVariance(ty, targetParam)
	switch {
	case counts.Invariant > 0:
		return VarianceInvariant
	case counts.Bivariant > 0:
		return VarianceBivariant
	case counts.Covariant > 0 && counts.Contravariant > 0:
		return VarianceInvariant
	case counts.Covariant > 0:
		return VarianceCovariant
	case counts.Contravariant > 0:
		return VarianceContravariant
	default:
		return VarianceUnused
	}
}

// IsInvariantPosition reports whether targetParam occurs invariantly
// in ty.
func (c *Context) IsInvariantPosition(ty types.TypeID, targetParam string) bool {
	return c.ClassifyVariance(ty, targetParam) == VarianceInvariant
}
