package types

// TypeID is a lightweight handle to an interned type.
// Equality check is O(1) - just compare the uint32 values.
//
// Sentinel semantics:
//   - Error is "contagious": type resolution failed, operations on it
//     return Error without extra diagnostics.
//   - Unknown is the type-safe top type; it is the placeholder result
//     when inference has no candidates and no bounds.
//   - Any opts out of checking entirely.
//   - Never is the bottom type; it never contributes to a union.
type TypeID uint32

const (
	// None is an internal placeholder - no valid type.
	None TypeID = iota
	// Error - type resolution failed.
	Error
	// Never - the bottom type.
	Never
	// Unknown - type-safe top type.
	Unknown
	// Any - opts out of type checking.
	Any
	// Void - functions with no meaningful return.
	Void
	// Undefined - the undefined value.
	Undefined
	// Null - the null value.
	Null
	// Boolean - true | false.
	Boolean
	// Number - all numeric values.
	Number
	// String - all string values.
	String
	// Bigint - arbitrary precision integers.
	Bigint
	// Symbol - unique symbol values.
	Symbol
	// ObjectKeyword - any non-primitive value (the `object` keyword).
	ObjectKeyword
	// True - the literal type `true`.
	True
	// False - the literal type `false`.
	False
	// FunctionKeyword - any callable (the `Function` type).
	FunctionKeyword
)

// FirstUserID is the first identifier handed out for interned
// (non-sentinel) types.
const FirstUserID TypeID = 100

func (id TypeID) IsIntrinsic() bool {
	return id < FirstUserID
}

func (id TypeID) IsError() bool {
	return id == Error
}

func (id TypeID) IsAnyOrUnknown() bool {
	return id == Any || id == Unknown
}

func (id TypeID) IsNever() bool {
	return id == Never
}
