package types

// BaseType returns the primitive a literal type widens to, or None for
// non-literals. true/false widen to boolean.
func BaseType(in *Interner, id TypeID) TypeID {
	lit, ok := in.Lookup(id).(Literal)
	if !ok {
		return None
	}
	switch lit.Value.Kind {
	case LiteralString:
		return String
	case LiteralNumber:
		return Number
	case LiteralBoolean:
		return Boolean
	case LiteralBigint:
		return Bigint
	}
	return None
}

// ApplyConstAssertion applies the `as const` transformation: literals
// stay literal, arrays become readonly single-element tuples, tuples
// become readonly with const-asserted elements, object properties turn
// readonly and are const-asserted recursively. Everything else passes
// through unchanged. Cycles terminate via the visiting set.
func ApplyConstAssertion(in *Interner, id TypeID) TypeID {
	return applyConstAssertion(in, id, make(map[TypeID]bool))
}

func applyConstAssertion(in *Interner, id TypeID, visiting map[TypeID]bool) TypeID {
	if visiting[id] {
		return id
	}
	visiting[id] = true
	defer delete(visiting, id)

	switch d := in.Lookup(id).(type) {
	case Literal:
		return id
	case Array:
		elem := applyConstAssertion(in, d.Elem, visiting)
		tuple := in.NewTuple([]TupleElement{{Type: elem}})
		return in.NewReadonly(tuple)
	case Tuple:
		elems := make([]TupleElement, len(d.Elems))
		for i, e := range d.Elems {
			e.Type = applyConstAssertion(in, e.Type, visiting)
			elems[i] = e
		}
		return in.NewReadonly(in.NewTuple(elems))
	case Object:
		props := make([]Property, len(d.Properties))
		for i, p := range d.Properties {
			p.Type = applyConstAssertion(in, p.Type, visiting)
			p.WriteType = applyConstAssertion(in, p.WriteType, visiting)
			p.Readonly = true
			props[i] = p
		}
		strIdx := constIndex(in, d.StringIndex, visiting)
		numIdx := constIndex(in, d.NumberIndex, visiting)
		return in.NewObject(props, strIdx, numIdx)
	case Union:
		members := make([]TypeID, len(d.Members))
		for i, m := range d.Members {
			members[i] = applyConstAssertion(in, m, visiting)
		}
		return in.NewUnion(members)
	case Readonly:
		return in.NewReadonly(applyConstAssertion(in, d.Inner, visiting))
	default:
		return id
	}
}

func constIndex(in *Interner, sig *IndexSignature, visiting map[TypeID]bool) *IndexSignature {
	if sig == nil {
		return nil
	}
	return &IndexSignature{Key: sig.Key, Value: applyConstAssertion(in, sig.Value, visiting)}
}
