package types

// IsLiteralType reports whether id is a literal type (including the
// true/false sentinels).
func IsLiteralType(in *Interner, id TypeID) bool {
	_, ok := in.Lookup(id).(Literal)
	return ok
}

// IsFunctionType reports whether id is callable: a function, an
// overloaded callable, the Function keyword, or an intersection
// containing one.
func IsFunctionType(in *Interner, id TypeID) bool {
	switch d := in.Lookup(id).(type) {
	case Function, Callable:
		return true
	case Intrinsic:
		return d.Kind == KindFunction
	case Intersection:
		for _, m := range d.Members {
			if IsFunctionType(in, m) {
				return true
			}
		}
	}
	return false
}

// IsObjectLike reports whether id has object structure: objects,
// arrays, tuples, mapped types, readonly wrappers over those, and
// intersections of object-likes.
func IsObjectLike(in *Interner, id TypeID) bool {
	switch d := in.Lookup(id).(type) {
	case Object, Array, Tuple, Mapped:
		return true
	case Readonly:
		return IsObjectLike(in, d.Inner)
	case Intersection:
		for _, m := range d.Members {
			if !IsObjectLike(in, m) {
				return false
			}
		}
		return true
	}
	return false
}

// IsObjectLikeBound reports whether a resolved type or upper bound is
// object-shaped for the purposes of the large-bound-set intersection
// heuristic: objects, deferred references, intersections, and type
// parameters whose constraint is object-shaped.
func IsObjectLikeBound(in *Interner, id TypeID) bool {
	switch d := in.Lookup(id).(type) {
	case Object, Lazy, Intersection:
		return true
	case TypeParameter:
		return d.Info.Constraint != None && IsObjectLikeBound(in, d.Info.Constraint)
	}
	return false
}

// TypeImpliesLiterals reports whether id contains a literal type,
// directly or inside unions/intersections. Inference keeps literal
// candidates unwidened when a bound implies literals, since widening
// "b" to string under T extends "a" | "b" would break the bound.
func TypeImpliesLiterals(in *Interner, id TypeID) bool {
	switch d := in.Lookup(id).(type) {
	case Literal:
		return true
	case Union:
		for _, m := range d.Members {
			if TypeImpliesLiterals(in, m) {
				return true
			}
		}
	case Intersection:
		for _, m := range d.Members {
			if TypeImpliesLiterals(in, m) {
				return true
			}
		}
	}
	return false
}

// IsTypeParameterNamed reports whether id is a type parameter or infer
// capture and returns its name.
func IsTypeParameterNamed(in *Interner, id TypeID) (string, bool) {
	switch d := in.Lookup(id).(type) {
	case TypeParameter:
		return d.Info.Name, true
	case Infer:
		return d.Info.Name, true
	}
	return "", false
}
