package infer

import (
	"github.com/tycho-lang/tycho/internal/types"
)

// Var is an inference variable standing for an unknown type during one
// generic call solve.
type Var uint32

// Candidate is one lower-bound observation for a variable, tagged with
// the priority of the position it came from. IsFreshLiteral marks
// candidates eligible for literal widening at resolution time.
type Candidate struct {
	Type           types.TypeID
	Priority       Priority
	IsFreshLiteral bool
}

// Info is the constraint record of an equivalence class: collected
// lower-bound candidates, upper bounds, and the committed resolution
// (None until resolved).
type Info struct {
	Candidates  []Candidate
	UpperBounds []types.TypeID
	Resolved    types.TypeID
}

// IsEmpty reports whether nothing has been observed for the class.
func (i *Info) IsEmpty() bool {
	return len(i.Candidates) == 0 && len(i.UpperBounds) == 0
}

type node struct {
	parent Var
	rank   uint8
	info   Info
}

type typeParam struct {
	name    string
	v       Var
	isConst bool
}

// Context is the inference state for a single call expression. It owns
// a path-compressed union-find arena over inference variables, the
// roster of declared type parameters, and a memoized subtype cache
// shared by best-common-type selection and bound validation.
//
// A Context is single-goroutine state; create one per solve.
type Context struct {
	in           *types.Interner
	resolver     types.Resolver
	nodes        []node
	typeParams   []typeParam
	subtypeCache map[subtypeKey]bool
}

type subtypeKey struct {
	source, target types.TypeID
}

// NewContext returns an empty inference context over the interner.
func NewContext(in *types.Interner) *Context {
	return &Context{
		in:           in,
		subtypeCache: make(map[subtypeKey]bool),
	}
}

// NewContextWithResolver also wires a Resolver for nominal base-type
// queries during best-common-type selection.
func NewContextWithResolver(in *types.Interner, r types.Resolver) *Context {
	ctx := NewContext(in)
	ctx.resolver = r
	return ctx
}

// Interner exposes the underlying type store.
func (c *Context) Interner() *types.Interner {
	return c.in
}

// FreshVar allocates a new unconstrained inference variable.
func (c *Context) FreshVar() Var {
	v := Var(len(c.nodes))
	c.nodes = append(c.nodes, node{parent: v, info: Info{Resolved: types.None}})
	return v
}

// FreshTypeParam allocates a variable and registers it under a type
// parameter name.
func (c *Context) FreshTypeParam(name string, isConst bool) Var {
	v := c.FreshVar()
	c.RegisterTypeParam(name, v, isConst)
	return v
}

// RegisterTypeParam records an existing variable as standing for a
// declared type parameter.
func (c *Context) RegisterTypeParam(name string, v Var, isConst bool) {
	c.typeParams = append(c.typeParams, typeParam{name: name, v: v, isConst: isConst})
}

// FindTypeParam returns the variable registered for name.
func (c *Context) FindTypeParam(name string) (Var, bool) {
	for _, tp := range c.typeParams {
		if tp.name == name {
			return tp.v, true
		}
	}
	return 0, false
}

// TypeParams returns the declared parameter names in registration
// order.
func (c *Context) TypeParams() []string {
	names := make([]string, len(c.typeParams))
	for i, tp := range c.typeParams {
		names[i] = tp.name
	}
	return names
}

// find returns the root of v's equivalence class, compressing the path
// on the way up.
func (c *Context) find(v Var) Var {
	for c.nodes[v].parent != v {
		c.nodes[v].parent = c.nodes[c.nodes[v].parent].parent
		v = c.nodes[v].parent
	}
	return v
}

// rootInfo returns the mutable record of v's class.
func (c *Context) rootInfo(v Var) *Info {
	return &c.nodes[c.find(v)].info
}

// isVarConst reports whether any const-declared parameter shares v's
// class.
func (c *Context) isVarConst(v Var) bool {
	root := c.find(v)
	for _, tp := range c.typeParams {
		if tp.isConst && c.find(tp.v) == root {
			return true
		}
	}
	return false
}

// Probe returns the committed resolution of v, or None.
func (c *Context) Probe(v Var) types.TypeID {
	return c.rootInfo(v).Resolved
}

// UnifyVarType commits v to a concrete type. Committing twice is fine
// when the types are compatible; otherwise it is a conflict. An
// occurs failure is reported before anything is written.
func (c *Context) UnifyVarType(v Var, ty types.TypeID) error {
	root := c.find(v)
	if c.occursIn(root, ty) {
		return &OccursCheckError{Var: root, Type: ty}
	}
	info := &c.nodes[root].info
	if info.Resolved == types.None {
		info.Resolved = ty
		return nil
	}
	if c.typesCompatible(info.Resolved, ty) {
		return nil
	}
	return &ConflictError{Existing: info.Resolved, Incoming: ty}
}

// UnifyVars merges two equivalence classes. Candidates and upper
// bounds union (deduplicated); the first non-empty resolution is kept,
// and two incompatible resolutions conflict.
func (c *Context) UnifyVars(a, b Var) error {
	ra, rb := c.find(a), c.find(b)
	if ra == rb {
		return nil
	}
	ia, ib := &c.nodes[ra].info, &c.nodes[rb].info
	if ia.Resolved != types.None && ib.Resolved != types.None &&
		!c.typesCompatible(ia.Resolved, ib.Resolved) {
		return &ConflictError{Existing: ia.Resolved, Incoming: ib.Resolved}
	}

	if c.nodes[ra].rank < c.nodes[rb].rank {
		ra, rb = rb, ra
		ia, ib = ib, ia
	}
	if c.nodes[ra].rank == c.nodes[rb].rank {
		c.nodes[ra].rank++
	}
	c.nodes[rb].parent = ra

	merged := mergeInfo(*ia, *ib)
	c.nodes[ra].info = merged
	c.nodes[rb].info = Info{Resolved: types.None}
	return nil
}

func mergeInfo(a, b Info) Info {
	out := a
	out.Candidates = appendCandidatesDedup(out.Candidates, b.Candidates)
	out.UpperBounds = appendTypesDedup(out.UpperBounds, b.UpperBounds)
	if out.Resolved == types.None {
		out.Resolved = b.Resolved
	}
	return out
}

func appendCandidatesDedup(target []Candidate, items []Candidate) []Candidate {
	for _, item := range items {
		dup := false
		for _, existing := range target {
			if existing == item {
				dup = true
				break
			}
		}
		if !dup {
			target = append(target, item)
		}
	}
	return target
}

func appendTypesDedup(target []types.TypeID, items []types.TypeID) []types.TypeID {
	for _, item := range items {
		dup := false
		for _, existing := range target {
			if existing == item {
				dup = true
				break
			}
		}
		if !dup {
			target = append(target, item)
		}
	}
	return target
}

// typesCompatible is the loose compatibility used when unifying two
// already-resolved classes. any, unknown and never are compatible with
// everything.
func (c *Context) typesCompatible(a, b types.TypeID) bool {
	if a == b {
		return true
	}
	switch {
	case a == types.Any || b == types.Any:
		return true
	case a == types.Unknown || b == types.Unknown:
		return true
	case a == types.Never || b == types.Never:
		return true
	}
	return false
}

// AddLowerBound records ty as a direct lower-bound observation
// (highest priority).
func (c *Context) AddLowerBound(v Var, ty types.TypeID) {
	c.AddCandidate(v, ty, PriorityNakedTypeVariable)
}

// AddCandidate records a lower-bound candidate at the given priority.
// Literal candidates are tagged fresh so resolution can widen them.
func (c *Context) AddCandidate(v Var, ty types.TypeID, priority Priority) {
	info := c.rootInfo(v)
	info.Candidates = appendCandidatesDedup(info.Candidates, []Candidate{{
		Type:           ty,
		Priority:       priority,
		IsFreshLiteral: types.IsLiteralType(c.in, ty),
	}})
}

// AddUpperBound records an extends constraint: v <: ty.
func (c *Context) AddUpperBound(v Var, ty types.TypeID) {
	info := c.rootInfo(v)
	info.UpperBounds = appendTypesDedup(info.UpperBounds, []types.TypeID{ty})
}

// Constraints snapshots the collected bounds of v, or nil when nothing
// was observed.
func (c *Context) Constraints(v Var) *ConstraintSet {
	info := c.rootInfo(v)
	if info.IsEmpty() {
		return nil
	}
	set := &ConstraintSet{}
	for _, cand := range info.Candidates {
		set.AddLowerBound(cand.Type)
	}
	for _, upper := range info.UpperBounds {
		set.AddUpperBound(upper)
	}
	return set
}

// AllCandidatesAreReturnType reports whether every candidate came from
// a return position, meaning the variable was only informed by round
// two.
func (c *Context) AllCandidatesAreReturnType(v Var) bool {
	info := c.rootInfo(v)
	if len(info.Candidates) == 0 {
		return false
	}
	for _, cand := range info.Candidates {
		if cand.Priority != PriorityReturnType {
			return false
		}
	}
	return true
}

// LiteralCandidates returns the un-widened fresh literal candidates of
// v.
func (c *Context) LiteralCandidates(v Var) []types.TypeID {
	info := c.rootInfo(v)
	var out []types.TypeID
	for _, cand := range info.Candidates {
		if cand.IsFreshLiteral {
			out = append(out, cand.Type)
		}
	}
	return out
}

// ResolveAll reads the committed resolution of every declared type
// parameter, failing on the first uncommitted one.
func (c *Context) ResolveAll() ([]Binding, error) {
	var out []Binding
	for _, tp := range c.typeParams {
		ty := c.Probe(tp.v)
		if ty == types.None {
			return nil, &UnresolvedError{Var: tp.v}
		}
		out = append(out, Binding{Name: tp.name, Type: ty})
	}
	return out, nil
}

// Binding pairs a type parameter name with its inferred type.
type Binding struct {
	Name string
	Type types.TypeID
}

// occursIn reports whether ty mentions any type parameter belonging to
// v's class.
func (c *Context) occursIn(v Var, ty types.TypeID) bool {
	if len(c.typeParams) == 0 {
		return false
	}
	root := c.find(v)
	visited := make(map[types.TypeID]bool)
	for _, tp := range c.typeParams {
		if c.find(tp.v) == root && c.typeContainsParam(ty, tp.name, visited) {
			return true
		}
	}
	return false
}

// typeParamNamesForRoot lists the declared names merged into root's
// class.
func (c *Context) typeParamNamesForRoot(root Var) []string {
	var names []string
	for _, tp := range c.typeParams {
		if c.find(tp.v) == root {
			names = append(names, tp.name)
		}
	}
	return names
}

// typeContainsParam walks ty looking for a type parameter or infer
// capture with the given name. Nested binders that re-declare the name
// shadow it.
func (c *Context) typeContainsParam(ty types.TypeID, target string, visited map[types.TypeID]bool) bool {
	if visited[ty] {
		return false
	}
	visited[ty] = true

	switch d := c.in.Lookup(ty).(type) {
	case types.TypeParameter:
		return d.Info.Name == target
	case types.Infer:
		return d.Info.Name == target
	case types.Array:
		return c.typeContainsParam(d.Elem, target, visited)
	case types.Tuple:
		for _, e := range d.Elems {
			if c.typeContainsParam(e.Type, target, visited) {
				return true
			}
		}
	case types.Union:
		for _, m := range d.Members {
			if c.typeContainsParam(m, target, visited) {
				return true
			}
		}
	case types.Intersection:
		for _, m := range d.Members {
			if c.typeContainsParam(m, target, visited) {
				return true
			}
		}
	case types.Object:
		for _, p := range d.Properties {
			if c.typeContainsParam(p.Type, target, visited) {
				return true
			}
		}
		for _, sig := range []*types.IndexSignature{d.StringIndex, d.NumberIndex} {
			if sig != nil && (c.typeContainsParam(sig.Key, target, visited) ||
				c.typeContainsParam(sig.Value, target, visited)) {
				return true
			}
		}
	case types.Application:
		if c.typeContainsParam(d.Base, target, visited) {
			return true
		}
		for _, arg := range d.Args {
			if c.typeContainsParam(arg, target, visited) {
				return true
			}
		}
	case types.Function:
		return c.shapeContainsParam(d.Shape, target, visited)
	case types.Callable:
		for _, sig := range d.CallSignatures {
			if c.shapeContainsParam(sig, target, visited) {
				return true
			}
		}
		for _, sig := range d.ConstructSignatures {
			if c.shapeContainsParam(sig, target, visited) {
				return true
			}
		}
		for _, p := range d.Properties {
			if c.typeContainsParam(p.Type, target, visited) {
				return true
			}
		}
	case types.Conditional:
		return c.typeContainsParam(d.Check, target, visited) ||
			c.typeContainsParam(d.Extends, target, visited) ||
			c.typeContainsParam(d.True, target, visited) ||
			c.typeContainsParam(d.False, target, visited)
	case types.Mapped:
		if d.Param.Name == target {
			return false
		}
		return c.typeContainsParam(d.Constraint, target, visited) ||
			c.typeContainsParam(d.Template, target, visited)
	case types.IndexAccess:
		return c.typeContainsParam(d.Object, target, visited) ||
			c.typeContainsParam(d.Index, target, visited)
	case types.KeyOf:
		return c.typeContainsParam(d.Operand, target, visited)
	case types.Readonly:
		return c.typeContainsParam(d.Inner, target, visited)
	case types.TemplateLiteral:
		for _, sp := range d.Spans {
			if sp.Kind == types.SpanType && c.typeContainsParam(sp.Type, target, visited) {
				return true
			}
		}
	case types.StringIntrinsic:
		return c.typeContainsParam(d.Arg, target, visited)
	case types.NoInfer:
		return c.typeContainsParam(d.Inner, target, visited)
	}
	return false
}

func (c *Context) shapeContainsParam(s *types.FunctionShape, target string, visited map[types.TypeID]bool) bool {
	for _, tp := range s.TypeParams {
		if tp.Name == target {
			return false
		}
	}
	if s.ThisType != types.None && c.typeContainsParam(s.ThisType, target, visited) {
		return true
	}
	for _, p := range s.Params {
		if c.typeContainsParam(p.Type, target, visited) {
			return true
		}
	}
	if s.Return != types.None && c.typeContainsParam(s.Return, target, visited) {
		return true
	}
	return false
}

// collectTypeParams gathers every parameter/infer name mentioned in
// ty.
func (c *Context) collectTypeParams(ty types.TypeID, params map[string]bool, visited map[types.TypeID]bool) {
	if visited[ty] {
		return
	}
	visited[ty] = true

	switch d := c.in.Lookup(ty).(type) {
	case types.TypeParameter:
		params[d.Info.Name] = true
	case types.Infer:
		params[d.Info.Name] = true
	case types.Array:
		c.collectTypeParams(d.Elem, params, visited)
	case types.Tuple:
		for _, e := range d.Elems {
			c.collectTypeParams(e.Type, params, visited)
		}
	case types.Union:
		for _, m := range d.Members {
			c.collectTypeParams(m, params, visited)
		}
	case types.Intersection:
		for _, m := range d.Members {
			c.collectTypeParams(m, params, visited)
		}
	case types.Object:
		for _, p := range d.Properties {
			c.collectTypeParams(p.Type, params, visited)
		}
		for _, sig := range []*types.IndexSignature{d.StringIndex, d.NumberIndex} {
			if sig != nil {
				c.collectTypeParams(sig.Key, params, visited)
				c.collectTypeParams(sig.Value, params, visited)
			}
		}
	case types.Application:
		c.collectTypeParams(d.Base, params, visited)
		for _, arg := range d.Args {
			c.collectTypeParams(arg, params, visited)
		}
	case types.Function:
		c.collectShapeParams(d.Shape, params, visited)
	case types.Callable:
		for _, sig := range d.CallSignatures {
			c.collectShapeParams(sig, params, visited)
		}
		for _, sig := range d.ConstructSignatures {
			c.collectShapeParams(sig, params, visited)
		}
		for _, p := range d.Properties {
			c.collectTypeParams(p.Type, params, visited)
		}
	case types.Conditional:
		c.collectTypeParams(d.Check, params, visited)
		c.collectTypeParams(d.Extends, params, visited)
		c.collectTypeParams(d.True, params, visited)
		c.collectTypeParams(d.False, params, visited)
	case types.Mapped:
		c.collectTypeParams(d.Constraint, params, visited)
		if d.NameType != types.None {
			c.collectTypeParams(d.NameType, params, visited)
		}
		c.collectTypeParams(d.Template, params, visited)
	case types.IndexAccess:
		c.collectTypeParams(d.Object, params, visited)
		c.collectTypeParams(d.Index, params, visited)
	case types.KeyOf:
		c.collectTypeParams(d.Operand, params, visited)
	case types.Readonly:
		c.collectTypeParams(d.Inner, params, visited)
	case types.TemplateLiteral:
		for _, sp := range d.Spans {
			if sp.Kind == types.SpanType {
				c.collectTypeParams(sp.Type, params, visited)
			}
		}
	case types.StringIntrinsic:
		c.collectTypeParams(d.Arg, params, visited)
	case types.NoInfer:
		c.collectTypeParams(d.Inner, params, visited)
	}
}

func (c *Context) collectShapeParams(s *types.FunctionShape, params map[string]bool, visited map[types.TypeID]bool) {
	for _, p := range s.Params {
		c.collectTypeParams(p.Type, params, visited)
	}
	if s.ThisType != types.None {
		c.collectTypeParams(s.ThisType, params, visited)
	}
	if s.Return != types.None {
		c.collectTypeParams(s.Return, params, visited)
	}
}

// containsInferenceVar reports whether ty mentions any parameter in
// v's equivalence class.
func (c *Context) containsInferenceVar(ty types.TypeID, v Var) bool {
	root := c.find(v)
	params := make(map[string]bool)
	c.collectTypeParams(ty, params, make(map[types.TypeID]bool))
	for name := range params {
		if pv, ok := c.FindTypeParam(name); ok && c.find(pv) == root {
			return true
		}
	}
	return false
}

// upperBoundCyclesParam reports whether bound refers, directly or
// through other parameters' bounds, back to any of the target names.
func (c *Context) upperBoundCyclesParam(bound types.TypeID, targets []string) bool {
	params := make(map[string]bool)
	c.collectTypeParams(bound, params, make(map[types.TypeID]bool))
	for name := range params {
		if c.paramDependsOnTargets(name, targets, make(map[string]bool)) {
			return true
		}
	}
	return false
}

func (c *Context) paramDependsOnTargets(name string, targets []string, visited map[string]bool) bool {
	for _, t := range targets {
		if t == name {
			return true
		}
	}
	if visited[name] {
		return false
	}
	visited[name] = true

	v, ok := c.FindTypeParam(name)
	if !ok {
		return false
	}
	info := c.rootInfo(v)
	for _, bound := range info.UpperBounds {
		for _, t := range targets {
			if c.typeContainsParam(bound, t, make(map[types.TypeID]bool)) {
				return true
			}
		}
		if tp, isParam := c.in.Lookup(bound).(types.TypeParameter); isParam {
			if c.paramDependsOnTargets(tp.Info.Name, targets, visited) {
				return true
			}
		}
	}
	return false
}

// isSubtype is the memoized assignability check shared by BCT and
// bound validation.
func (c *Context) isSubtype(source, target types.TypeID) bool {
	key := subtypeKey{source, target}
	if cached, ok := c.subtypeCache[key]; ok {
		return cached
	}
	result := types.IsSubtypeWith(c.in, c.resolver, source, target)
	c.subtypeCache[key] = result
	return result
}
