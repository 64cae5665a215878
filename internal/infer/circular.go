package infer

import (
	"github.com/tycho-lang/tycho/internal/config"
	"github.com/tycho-lang/tycho/internal/types"
)

// unifyCircularConstraints finds type parameters whose extends
// constraints form cycles (T extends U, U extends T) and merges each
// cycle into one equivalence class so the members resolve together.
// Only naked type-parameter bounds create edges; T extends List<U>
// does not.
func (c *Context) unifyCircularConstraints() error {
	graph := make(map[Var]map[Var]bool)
	varForParam := make(map[string]Var, len(c.typeParams))

	for _, tp := range c.typeParams {
		root := c.find(tp.v)
		varForParam[tp.name] = root
		if graph[root] == nil {
			graph[root] = make(map[Var]bool)
		}
	}

	for _, tp := range c.typeParams {
		root := c.find(tp.v)
		for _, upper := range c.nodes[root].info.UpperBounds {
			param, ok := c.in.Lookup(upper).(types.TypeParameter)
			if !ok {
				continue
			}
			if upperRoot, known := varForParam[param.Info.Name]; known {
				graph[root][upperRoot] = true
			}
		}
	}

	sccs := stronglyConnected(graph)
	for _, scc := range sccs {
		if len(scc) < 2 {
			continue
		}
		first := scc[0]
		for _, other := range scc[1:] {
			if err := c.UnifyVars(first, other); err != nil {
				return err
			}
		}
	}
	return nil
}

type tarjanState struct {
	graph   map[Var]map[Var]bool
	counter int
	index   map[Var]int
	lowlink map[Var]int
	stack   []Var
	onStack map[Var]bool
	sccs    [][]Var
}

// stronglyConnected runs Tarjan's algorithm over the extends graph.
func stronglyConnected(graph map[Var]map[Var]bool) [][]Var {
	st := &tarjanState{
		graph:   graph,
		index:   make(map[Var]int, len(graph)),
		lowlink: make(map[Var]int, len(graph)),
		onStack: make(map[Var]bool, len(graph)),
	}
	for v := range graph {
		if _, seen := st.index[v]; !seen {
			st.connect(v)
		}
	}
	return st.sccs
}

func (st *tarjanState) connect(v Var) {
	st.index[v] = st.counter
	st.lowlink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for n := range st.graph[v] {
		if _, seen := st.index[n]; !seen {
			st.connect(n)
			if st.lowlink[n] < st.lowlink[v] {
				st.lowlink[v] = st.lowlink[n]
			}
		} else if st.onStack[n] {
			if st.index[n] < st.lowlink[v] {
				st.lowlink[v] = st.index[n]
			}
		}
	}

	if st.lowlink[v] == st.index[v] {
		var scc []Var
		for {
			w := st.stack[len(st.stack)-1]
			st.stack = st.stack[:len(st.stack)-1]
			delete(st.onStack, w)
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		st.sccs = append(st.sccs, scc)
	}
}

// StrengthenConstraints propagates observations between dependent type
// parameters before resolution. Cycles are unified first; then a
// bounded fixed point pushes candidates up extends edges (if T <: U,
// candidates of T also constrain U) at Circular priority so they never
// beat direct observations.
func (c *Context) StrengthenConstraints() error {
	if err := c.unifyCircularConstraints(); err != nil {
		return err
	}

	changed := true
	for iter := 0; changed && iter < config.MaxConstraintIterations; iter++ {
		changed = false
		for _, tp := range c.typeParams {
			root := c.find(tp.v)
			uppers := append([]types.TypeID(nil), c.nodes[root].info.UpperBounds...)
			for _, upper := range uppers {
				if c.propagateCandidatesToUpper(root, upper, tp.name) {
					changed = true
				}
			}
		}
	}
	return nil
}

// propagateCandidatesToUpper copies root's candidates onto a
// type-parameter upper bound. Returns true when anything new was
// added.
func (c *Context) propagateCandidatesToUpper(root Var, upper types.TypeID, excludeParam string) bool {
	param, ok := c.in.Lookup(upper).(types.TypeParameter)
	if !ok || param.Info.Name == excludeParam {
		return false
	}
	upperVar, registered := c.FindTypeParam(param.Info.Name)
	if !registered {
		return false
	}
	upperRoot := c.find(upperVar)
	if upperRoot == root {
		return false
	}

	candidates := append([]Candidate(nil), c.nodes[root].info.Candidates...)
	changed := false
	for _, cand := range candidates {
		if c.addCandidateIfNew(upperRoot, cand.Type, PriorityCircular) {
			changed = true
		}
	}
	return changed
}

// addCandidateIfNew reports whether the candidate type was actually
// new, which drives the strengthening fixed point.
func (c *Context) addCandidateIfNew(v Var, ty types.TypeID, priority Priority) bool {
	info := c.rootInfo(v)
	for _, cand := range info.Candidates {
		if cand.Type == ty {
			return false
		}
	}
	c.AddCandidate(v, ty, priority)
	return true
}
