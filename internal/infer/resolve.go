package infer

import (
	"github.com/tycho-lang/tycho/internal/config"
	"github.com/tycho-lang/tycho/internal/types"
)

// ResolveWithConstraints resolves one variable from its collected
// constraints:
//
//  1. An already committed resolution wins.
//  2. Otherwise the best common type of the lower-bound candidates.
//  3. The result is validated against the upper bounds; a candidate
//     that escapes them is a bounds violation, not a silent widening.
//  4. With no candidates at all, the constraint itself is the answer.
func (c *Context) ResolveWithConstraints(v Var) (types.TypeID, error) {
	if ty := c.Probe(v); ty != types.None {
		return ty, nil
	}

	root, result, upperBounds, upperBoundsOnly := c.computeConstraintResult(v)

	if !upperBoundsOnly {
		relevant := filterRelevantUpperBounds(upperBounds)
		if upper, failed := c.firstFailedUpperBound(result, relevant); failed {
			return types.None, &BoundsViolationError{Var: v, Lower: result, Upper: upper}
		}
	}

	if c.occursIn(root, result) {
		return types.None, &OccursCheckError{Var: root, Type: result}
	}

	c.nodes[root].info.Resolved = result
	return result, nil
}

// ResolveAllWithConstraints strengthens inter-parameter constraints and
// then resolves every declared parameter in order. Strengthening first
// lets an observation on T reach a U that T extends.
func (c *Context) ResolveAllWithConstraints() ([]Binding, error) {
	if err := c.StrengthenConstraints(); err != nil {
		return nil, err
	}
	var out []Binding
	for _, tp := range c.typeParams {
		ty, err := c.ResolveWithConstraints(tp.v)
		if err != nil {
			return nil, err
		}
		out = append(out, Binding{Name: tp.name, Type: ty})
	}
	return out, nil
}

// filterRelevantUpperBounds drops bounds that admit everything and the
// error type, which would only mask real violations.
func filterRelevantUpperBounds(bounds []types.TypeID) []types.TypeID {
	out := bounds[:0:0]
	for _, b := range bounds {
		if b == types.Any || b == types.Unknown || b == types.Error {
			continue
		}
		out = append(out, b)
	}
	return out
}

// firstFailedUpperBound returns the first bound the result does not
// satisfy. For small sets a single check against the combined
// intersection replaces per-bound checks; very large sets get the
// combined check only when every participant is object-like, where the
// success path is common and the intersection cheap to relate.
func (c *Context) firstFailedUpperBound(result types.TypeID, bounds []types.TypeID) (types.TypeID, bool) {
	switch len(bounds) {
	case 0:
		return types.None, false
	case 1:
		if c.isSubtype(result, bounds[0]) {
			return types.None, false
		}
		return bounds[0], true
	}

	if len(bounds) <= config.UpperBoundIntersectionFastPathLimit {
		if c.isSubtype(result, c.in.NewIntersection(bounds)) {
			return types.None, false
		}
	}
	if len(bounds) >= config.UpperBoundIntersectionLargeSetLimit &&
		c.allObjectLikeBounds(result, bounds) {
		if c.isSubtype(result, c.in.NewIntersection(bounds)) {
			return types.None, false
		}
	}
	for _, b := range bounds {
		if !c.isSubtype(result, b) {
			return b, true
		}
	}
	return types.None, false
}

func (c *Context) allObjectLikeBounds(result types.TypeID, bounds []types.TypeID) bool {
	if !types.IsObjectLikeBound(c.in, result) {
		return false
	}
	for _, b := range bounds {
		if !types.IsObjectLikeBound(c.in, b) {
			return false
		}
	}
	return true
}

// computeConstraintResult gathers the effective candidates and upper
// bounds of v's class and picks a result. Upper bounds that mention the
// class itself are expanded through the cyclic parameter rather than
// kept, and once any bound survives, any/unknown/error candidates are
// discarded as uninformative.
//
// upperBoundsOnly reports that the result came from bounds alone, in
// which case validating it against those same bounds would be circular.
func (c *Context) computeConstraintResult(v Var) (Var, types.TypeID, []types.TypeID, bool) {
	root := c.find(v)
	info := c.nodes[root].info
	targetNames := c.typeParamNamesForRoot(root)

	candidates := append([]Candidate(nil), info.Candidates...)
	var upperBounds []types.TypeID
	for _, bound := range info.UpperBounds {
		if c.occursIn(root, bound) {
			continue
		}
		if len(targetNames) > 0 && c.upperBoundCyclesParam(bound, targetNames) {
			candidates, upperBounds = c.expandCyclicUpperBound(root, bound, targetNames, candidates, upperBounds)
			continue
		}
		upperBounds = appendTypesDedup(upperBounds, []types.TypeID{bound})
	}

	if len(upperBounds) > 0 {
		kept := candidates[:0]
		for _, cand := range candidates {
			if cand.Type == types.Any || cand.Type == types.Unknown || cand.Type == types.Error {
				continue
			}
			kept = append(kept, cand)
		}
		candidates = kept
	}

	isConst := c.isVarConst(root)
	upperBoundsOnly := len(candidates) == 0 && len(upperBounds) > 0

	var result types.TypeID
	switch {
	case len(candidates) > 0:
		result = c.resolveFromCandidates(candidates, isConst, upperBounds)
	case len(upperBounds) == 1:
		// Un-inferred parameters default to their constraint.
		result = upperBounds[0]
	case len(upperBounds) > 1:
		result = c.in.NewIntersection(upperBounds)
	default:
		result = types.Unknown
	}

	return root, result, upperBounds, upperBoundsOnly
}

// expandCyclicUpperBound replaces a bound that cycles back into the
// class (T extends U with U extends T somewhere) with the other
// parameter's usable information: its resolution if committed,
// otherwise its candidates at Circular priority plus its own
// non-cyclic bounds.
func (c *Context) expandCyclicUpperBound(root Var, bound types.TypeID, targetNames []string, candidates []Candidate, upperBounds []types.TypeID) ([]Candidate, []types.TypeID) {
	name, ok := types.IsTypeParameterNamed(c.in, bound)
	if !ok {
		return candidates, upperBounds
	}
	v, registered := c.FindTypeParam(name)
	if !registered {
		return candidates, upperBounds
	}

	if resolved := c.Probe(v); resolved != types.None {
		return candidates, appendTypesDedup(upperBounds, []types.TypeID{resolved})
	}

	boundInfo := c.nodes[c.find(v)].info
	for _, cand := range boundInfo.Candidates {
		if c.occursIn(root, cand.Type) {
			continue
		}
		candidates = appendCandidatesDedup(candidates, []Candidate{{
			Type:           cand.Type,
			Priority:       PriorityCircular,
			IsFreshLiteral: cand.IsFreshLiteral,
		}})
	}
	for _, ty := range boundInfo.UpperBounds {
		if c.occursIn(root, ty) {
			continue
		}
		if len(targetNames) > 0 && c.upperBoundCyclesParam(ty, targetNames) {
			continue
		}
		upperBounds = appendTypesDedup(upperBounds, []types.TypeID{ty})
	}
	return candidates, upperBounds
}

// resolveFromCandidates picks a type from lower-bound candidates. Only
// the best (lowest) priority tier participates. Fresh literals widen
// to their base unless the parameter is const or the constraint itself
// names literals, where widening would break assignability.
func (c *Context) resolveFromCandidates(candidates []Candidate, isConst bool, upperBounds []types.TypeID) types.TypeID {
	filtered := filterCandidatesByPriority(candidates)
	if len(filtered) == 0 {
		return types.Unknown
	}
	noNever := filtered[:0:0]
	for _, cand := range filtered {
		if cand.Type != types.Never {
			noNever = append(noNever, cand)
		}
	}
	if len(noNever) == 0 {
		return types.Never
	}

	preserveLiterals := isConst || c.constraintImpliesLiterals(upperBounds)
	widened := make([]types.TypeID, len(noNever))
	switch {
	case isConst:
		for i, cand := range noNever {
			widened[i] = types.ApplyConstAssertion(c.in, cand.Type)
		}
	case preserveLiterals:
		for i, cand := range noNever {
			widened[i] = cand.Type
		}
	default:
		for i, cand := range noNever {
			widened[i] = c.widenCandidate(cand)
		}
	}
	return c.BestCommonType(widened)
}

func (c *Context) constraintImpliesLiterals(upperBounds []types.TypeID) bool {
	for _, bound := range upperBounds {
		if types.TypeImpliesLiterals(c.in, bound) {
			return true
		}
	}
	return false
}

// filterCandidatesByPriority keeps only the best tier. Lower numeric
// priority means a more direct observation.
func filterCandidatesByPriority(candidates []Candidate) []Candidate {
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0].Priority
	for _, cand := range candidates[1:] {
		if cand.Priority < best {
			best = cand.Priority
		}
	}
	out := candidates[:0:0]
	for _, cand := range candidates {
		if cand.Priority == best {
			out = append(out, cand)
		}
	}
	return out
}

// widenCandidate widens a fresh literal (0 becomes number, false
// becomes boolean); non-fresh candidates pass through.
func (c *Context) widenCandidate(cand Candidate) types.TypeID {
	if !cand.IsFreshLiteral {
		return cand.Type
	}
	if base := types.BaseType(c.in, cand.Type); base != types.None {
		return base
	}
	return cand.Type
}

// FixCurrentVariables commits every parameter that round one gave
// candidates, so the contextual round cannot override them with
// lower-priority observations. Parameters with no candidates stay
// open; they may still learn from round two. Candidates and bounds are
// kept for final validation.
func (c *Context) FixCurrentVariables() error {
	for _, tp := range c.typeParams {
		root := c.find(tp.v)
		info := &c.nodes[root].info
		if info.Resolved != types.None {
			continue
		}
		if len(info.Candidates) == 0 {
			continue
		}

		result := c.resolveFromCandidates(info.Candidates, c.isVarConst(root), info.UpperBounds)

		// A self-referential result is left open for full resolution.
		if c.occursIn(root, result) {
			continue
		}
		info.Resolved = result
	}
	return nil
}

// CurrentSubstitution maps every declared parameter to its best type
// so far: the resolution when committed, the candidates' best common
// type otherwise, the constraint as a last fallback, unknown when
// nothing is known. Round two feeds this into contextual typing of
// function-valued arguments.
func (c *Context) CurrentSubstitution() map[string]types.TypeID {
	subst := make(map[string]types.TypeID, len(c.typeParams))
	for _, tp := range c.typeParams {
		if resolved := c.Probe(tp.v); resolved != types.None {
			subst[tp.name] = resolved
			continue
		}
		root := c.find(tp.v)
		info := c.nodes[root].info
		switch {
		case len(info.Candidates) > 0:
			subst[tp.name] = c.resolveFromCandidates(info.Candidates, c.isVarConst(root), info.UpperBounds)
		case len(info.UpperBounds) == 1:
			subst[tp.name] = info.UpperBounds[0]
		case len(info.UpperBounds) > 1:
			subst[tp.name] = c.in.NewIntersection(info.UpperBounds)
		default:
			subst[tp.name] = types.Unknown
		}
	}
	return subst
}

// ValidateVariance checks every committed resolution for self
// reference. A parameter resolving to a type that mentions itself is
// an occurs failure surfaced late.
func (c *Context) ValidateVariance() error {
	for _, tp := range c.typeParams {
		resolved := c.Probe(tp.v)
		if resolved == types.None {
			continue
		}
		if c.occursIn(tp.v, resolved) {
			return &OccursCheckError{Var: c.find(tp.v), Type: resolved}
		}
	}
	return nil
}

// InferFromContext feeds an expected type (return position, declared
// variable type) in as an upper bound. A context that itself mentions
// the variable is recursive and rejected.
func (c *Context) InferFromContext(v Var, contextType types.TypeID) error {
	c.AddUpperBound(v, contextType)
	if c.containsInferenceVar(contextType, v) {
		return &OccursCheckError{Var: c.find(v), Type: contextType}
	}
	return nil
}

// InferFromConditional extracts constraints from a conditional type.
// When the check side is this very parameter, the extends clause is a
// direct upper bound; both branches are then mined for further
// constraint information.
func (c *Context) InferFromConditional(v Var, cond types.Conditional) {
	if name, ok := types.IsTypeParameterNamed(c.in, cond.Check); ok {
		if checkVar, registered := c.FindTypeParam(name); registered && c.find(checkVar) == c.find(v) {
			c.AddUpperBound(v, cond.Extends)
		}
	}
	c.inferFromType(v, cond.True)
	c.inferFromType(v, cond.False)
}

// inferFromType walks a type picking up declared constraints for v's
// class wherever the parameter itself appears.
func (c *Context) inferFromType(v Var, ty types.TypeID) {
	if !c.containsInferenceVar(ty, v) {
		return
	}
	switch d := c.in.Lookup(ty).(type) {
	case types.TypeParameter:
		if pv, ok := c.FindTypeParam(d.Info.Name); ok && c.find(pv) == c.find(v) {
			if d.Info.Constraint != types.None {
				c.AddUpperBound(v, d.Info.Constraint)
			}
		}
	case types.Array:
		c.inferFromType(v, d.Elem)
	case types.Tuple:
		for _, e := range d.Elems {
			c.inferFromType(v, e.Type)
		}
	case types.Union:
		for _, m := range d.Members {
			c.inferFromType(v, m)
		}
	case types.Intersection:
		for _, m := range d.Members {
			c.inferFromType(v, m)
		}
	case types.Object:
		for _, p := range d.Properties {
			c.inferFromType(v, p.Type)
		}
		for _, sig := range []*types.IndexSignature{d.StringIndex, d.NumberIndex} {
			if sig != nil {
				c.inferFromType(v, sig.Key)
				c.inferFromType(v, sig.Value)
			}
		}
	case types.Application:
		c.inferFromType(v, d.Base)
		for _, arg := range d.Args {
			c.inferFromType(v, arg)
		}
	case types.Function:
		for _, p := range d.Shape.Params {
			c.inferFromType(v, p.Type)
		}
		if d.Shape.ThisType != types.None {
			c.inferFromType(v, d.Shape.ThisType)
		}
		if d.Shape.Return != types.None {
			c.inferFromType(v, d.Shape.Return)
		}
	case types.Conditional:
		c.InferFromConditional(v, d)
	case types.TemplateLiteral:
		for _, sp := range d.Spans {
			if sp.Kind == types.SpanType {
				c.inferFromType(v, sp.Type)
			}
		}
	}
}
