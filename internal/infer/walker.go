package infer

import (
	"github.com/tycho-lang/tycho/internal/types"
)

// InferFromTypes performs structural inference from a source type (the
// argument) to a target type (the parameter), collecting candidates
// and bounds for every registered type parameter the target mentions.
//
// Rules, in order:
//   - A NoInfer target blocks inference entirely; a NoInfer source is
//     unwrapped.
//   - Target is a registered type parameter: source becomes a
//     lower-bound candidate at the given priority.
//   - Source is a registered type parameter (the contravariant swap
//     puts it there): target becomes an upper bound.
//   - Otherwise recurse shape by shape. A failed structural match is
//     not an error; assignability is checked elsewhere.
func (c *Context) InferFromTypes(source, target types.TypeID, priority Priority) error {
	targetData := c.in.Lookup(target)

	if _, blocked := targetData.(types.NoInfer); blocked {
		return nil
	}

	sourceData := c.in.Lookup(source)
	if ni, ok := sourceData.(types.NoInfer); ok {
		source = ni.Inner
		sourceData = c.in.Lookup(source)
	}

	if tp, ok := targetData.(types.TypeParameter); ok {
		if v, registered := c.FindTypeParam(tp.Info.Name); registered {
			c.AddCandidate(v, source, priority)
			return nil
		}
	}

	if tp, ok := sourceData.(types.TypeParameter); ok {
		if v, registered := c.FindTypeParam(tp.Info.Name); registered {
			c.AddUpperBound(v, target)
			return nil
		}
	}

	switch td := targetData.(type) {
	case types.Object:
		if sd, ok := sourceData.(types.Object); ok {
			return c.inferObjects(sd, td, priority)
		}
		return nil
	case types.Mapped:
		if sd, ok := sourceData.(types.Object); ok {
			return c.inferFromMappedType(sd, td, priority)
		}
		return nil
	case types.Function:
		if sd, ok := sourceData.(types.Function); ok {
			return c.inferFunctions(sd.Shape, td.Shape, priority)
		}
		return nil
	case types.Callable:
		if sd, ok := sourceData.(types.Callable); ok {
			return c.inferCallables(sd, td, priority)
		}
		return nil
	case types.Array:
		if sd, ok := sourceData.(types.Array); ok {
			return c.InferFromTypes(sd.Elem, td.Elem, priority)
		}
		return nil
	case types.Tuple:
		if sd, ok := sourceData.(types.Tuple); ok {
			return c.inferTuples(sd, td, priority)
		}
		return nil
	case types.Union:
		if sd, ok := sourceData.(types.Union); ok {
			return c.inferUnions(sd, td, priority)
		}
		// A non-union source against a union target behaves like a
		// one-member source union.
		return c.inferUnions(types.Union{Members: []types.TypeID{source}}, td, priority)
	case types.Intersection:
		if sd, ok := sourceData.(types.Intersection); ok {
			return c.inferIntersections(sd, td, priority)
		}
		return nil
	case types.Application:
		if sd, ok := sourceData.(types.Application); ok {
			return c.inferApplications(sd, td, priority)
		}
		return nil
	case types.IndexAccess:
		if sd, ok := sourceData.(types.IndexAccess); ok {
			if err := c.InferFromTypes(sd.Object, td.Object, priority); err != nil {
				return err
			}
			return c.InferFromTypes(sd.Index, td.Index, priority)
		}
		return nil
	case types.Readonly:
		// A mutable source still informs a readonly target.
		if sd, ok := sourceData.(types.Readonly); ok {
			return c.InferFromTypes(sd.Inner, td.Inner, priority)
		}
		return c.InferFromTypes(source, td.Inner, priority)
	case types.TemplateLiteral:
		return c.inferFromTemplateLiteral(source, sourceData, td, priority)
	default:
		return nil
	}
}

// inferObjects matches same-named properties and index signatures.
func (c *Context) inferObjects(source, target types.Object, priority Priority) error {
	for _, tp := range target.Properties {
		for _, sp := range source.Properties {
			if sp.Name == tp.Name {
				if err := c.InferFromTypes(sp.Type, tp.Type, priority); err != nil {
					return err
				}
				break
			}
		}
	}
	if target.StringIndex != nil && source.StringIndex != nil {
		if err := c.InferFromTypes(source.StringIndex.Value, target.StringIndex.Value, priority); err != nil {
			return err
		}
	}
	if target.NumberIndex != nil && source.NumberIndex != nil {
		if err := c.InferFromTypes(source.NumberIndex.Value, target.NumberIndex.Value, priority); err != nil {
			return err
		}
	}
	return nil
}

// inferFromMappedType matches an object source against a mapped-type
// target { [P in K]: T }: K is informed by the union of the source's
// property-name literals, T by each property value.
func (c *Context) inferFromMappedType(source types.Object, target types.Mapped, priority Priority) error {
	if len(source.Properties) == 0 {
		return nil
	}
	names := make([]types.TypeID, len(source.Properties))
	for i, p := range source.Properties {
		names[i] = c.in.StringLiteral(p.Name)
	}
	if err := c.InferFromTypes(c.in.NewUnion(names), target.Constraint, priority); err != nil {
		return err
	}
	for _, p := range source.Properties {
		if err := c.InferFromTypes(p.Type, target.Template, priority); err != nil {
			return err
		}
	}
	return nil
}

// inferFunctions walks two signatures. Parameters are contravariant:
// source and target swap. When the target ends in a rest parameter
// that is itself a type parameter, the remaining source parameters are
// captured as a tuple so (a: number, b: string) infers A = [number,
// string] for (...args: A) => R.
func (c *Context) inferFunctions(source, target *types.FunctionShape, priority Priority) error {
	si, ti := 0, 0
	sp, tp := source.Params, target.Params
	for {
		sourceRest := si < len(sp) && sp[si].Rest
		targetRest := ti < len(tp) && tp[ti].Rest

		if sourceRest && targetRest {
			if err := c.InferFromTypes(tp[ti].Type, sp[si].Type, priority); err != nil {
				return err
			}
			break
		}
		if sourceRest {
			rest := sp[si].Type
			for ; ti < len(tp); ti++ {
				if err := c.InferFromTypes(tp[ti].Type, rest, priority); err != nil {
					return err
				}
			}
			break
		}
		if targetRest {
			restTarget := tp[ti].Type
			if _, isParam := types.IsTypeParameterNamed(c.in, restTarget); isParam {
				var elems []types.TupleElement
				for ; si < len(sp); si++ {
					elems = append(elems, types.TupleElement{
						Type:     sp[si].Type,
						Name:     sp[si].Name,
						Optional: sp[si].Optional,
						Rest:     sp[si].Rest,
					})
				}
				if len(elems) > 0 {
					tuple := c.in.NewTuple(elems)
					if err := c.InferFromTypes(restTarget, tuple, priority); err != nil {
						return err
					}
				}
			} else {
				for ; si < len(sp); si++ {
					if err := c.InferFromTypes(restTarget, sp[si].Type, priority); err != nil {
						return err
					}
				}
			}
			break
		}
		if si >= len(sp) || ti >= len(tp) {
			break
		}
		if err := c.InferFromTypes(tp[ti].Type, sp[si].Type, priority); err != nil {
			return err
		}
		si++
		ti++
	}

	// Return type is covariant.
	if source.Return != types.None && target.Return != types.None {
		if err := c.InferFromTypes(source.Return, target.Return, priority); err != nil {
			return err
		}
	}

	// this is contravariant, like a parameter.
	if source.ThisType != types.None && target.ThisType != types.None {
		if err := c.InferFromTypes(target.ThisType, source.ThisType, priority); err != nil {
			return err
		}
	}

	// Type predicates are covariant when they discriminate the same
	// parameter.
	if source.Predicate != nil && target.Predicate != nil &&
		source.Predicate.Param == target.Predicate.Param {
		if err := c.InferFromTypes(source.Predicate.Type, target.Predicate.Type, priority); err != nil {
			return err
		}
	}
	return nil
}

// inferTuples recurses pairwise over the shared prefix.
func (c *Context) inferTuples(source, target types.Tuple, priority Priority) error {
	n := len(source.Elems)
	if len(target.Elems) < n {
		n = len(target.Elems)
	}
	for i := 0; i < n; i++ {
		if err := c.InferFromTypes(source.Elems[i].Type, target.Elems[i].Type, priority); err != nil {
			return err
		}
	}
	return nil
}

// inferCallables pairs each target signature with the first source
// signature of the same arity, then matches properties and indexes.
func (c *Context) inferCallables(source, target types.Callable, priority Priority) error {
	if err := c.inferSignatureLists(source.CallSignatures, target.CallSignatures, priority); err != nil {
		return err
	}
	if err := c.inferSignatureLists(source.ConstructSignatures, target.ConstructSignatures, priority); err != nil {
		return err
	}
	for _, tp := range target.Properties {
		for _, sp := range source.Properties {
			if sp.Name == tp.Name {
				if err := c.InferFromTypes(sp.Type, tp.Type, priority); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

func (c *Context) inferSignatureLists(source, target []*types.FunctionShape, priority Priority) error {
	for _, ts := range target {
		for _, ss := range source {
			if len(ss.Params) != len(ts.Params) {
				continue
			}
			for i := range ss.Params {
				if err := c.InferFromTypes(ts.Params[i].Type, ss.Params[i].Type, priority); err != nil {
					return err
				}
			}
			if ss.Return != types.None && ts.Return != types.None {
				if err := c.InferFromTypes(ss.Return, ts.Return, priority); err != nil {
					return err
				}
			}
			break
		}
	}
	return nil
}

// inferUnions applies the partition rule: when the target union mixes
// registered type parameters with fixed members, source members
// already covered by a fixed target member are stripped before
// inferring against the parameterized ones. This keeps undefined in
// number | undefined from polluting T in T | undefined.
func (c *Context) inferUnions(source, target types.Union, priority Priority) error {
	var parameterized, fixed []types.TypeID
	for _, t := range target.Members {
		if c.targetIsInferenceParam(t) {
			parameterized = append(parameterized, t)
		} else {
			fixed = append(fixed, t)
		}
	}

	if len(parameterized) > 0 && len(fixed) > 0 {
		for _, s := range source.Members {
			covered := false
			for _, f := range fixed {
				if s == f {
					covered = true
					break
				}
			}
			if covered {
				continue
			}
			for _, t := range parameterized {
				if err := c.InferFromTypes(s, t, priority); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, s := range source.Members {
		for _, t := range target.Members {
			if err := c.InferFromTypes(s, t, priority); err != nil {
				return err
			}
		}
	}
	return nil
}

// targetIsInferenceParam reports whether the member is a bare
// registered type parameter.
func (c *Context) targetIsInferenceParam(target types.TypeID) bool {
	tp, ok := c.in.Lookup(target).(types.TypeParameter)
	if !ok {
		return false
	}
	_, registered := c.FindTypeParam(tp.Info.Name)
	return registered
}

// inferIntersections is best-effort: each pair is tried and individual
// mismatches are ignored.
func (c *Context) inferIntersections(source, target types.Intersection, priority Priority) error {
	for _, s := range source.Members {
		for _, t := range target.Members {
			// A failed member match is fine; some other member may
			// carry the information.
			_ = c.InferFromTypes(s, t, priority)
		}
	}
	return nil
}

// inferApplications recurses into type arguments only when both sides
// instantiate the same base.
func (c *Context) inferApplications(source, target types.Application, priority Priority) error {
	if source.Base != target.Base {
		return nil
	}
	n := len(source.Args)
	if len(target.Args) < n {
		n = len(target.Args)
	}
	for i := 0; i < n; i++ {
		if err := c.InferFromTypes(source.Args[i], target.Args[i], priority); err != nil {
			return err
		}
	}
	return nil
}
