// Package ssa implements the SSA (Static Single Assignment) intermediate
// representation for Kaleido and the code generator that lowers the AST into it.
package ssa

// Op represents an SSA operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConstFloat // float constant; AuxFloat = value

	// Float arithmetic
	OpAddF64 // float + float
	OpSubF64 // float - float
	OpMulF64 // float * float

	// Float comparison
	OpLtF64  // float < float (unordered or less)
	OpNeqF64 // float != float (ordered and not equal)

	// Conversion
	OpBoolToFloat // bool → 0.0 or 1.0

	// Memory
	OpAlloca // storage slot; Type = ptr; Aux = variable name
	OpLoad   // load from slot; Args[0] = slot
	OpStore  // store to slot; Args[0] = slot, Args[1] = val; void

	// Calls
	OpCall // call by name; Aux = callee name; Args = arguments

	// SSA-specific
	OpPhi // φ function; Args = one per predecessor, in Preds order
	OpArg // function argument; AuxInt = param index; Aux = param name

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an SSA operation.
type OpInfo struct {
	Name   string // human-readable name
	IsPure bool   // true if the op has no side effects
	IsVoid bool   // true if the op produces no value
}

// opInfoTable maps each Op to its OpInfo.
// Index by Op value.
var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConstFloat: {Name: "ConstFloat", IsPure: true},

	OpAddF64: {Name: "AddF64", IsPure: true},
	OpSubF64: {Name: "SubF64", IsPure: true},
	OpMulF64: {Name: "MulF64", IsPure: true},

	OpLtF64:  {Name: "LtF64", IsPure: true},
	OpNeqF64: {Name: "NeqF64", IsPure: true},

	OpBoolToFloat: {Name: "BoolToFloat", IsPure: true},

	OpAlloca: {Name: "Alloca"},
	OpLoad:   {Name: "Load"},
	OpStore:  {Name: "Store", IsVoid: true},

	// Calls may reach host functions with side effects.
	OpCall: {Name: "Call"},

	OpPhi: {Name: "Phi", IsPure: true},
	OpArg: {Name: "Arg", IsPure: true},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	return o.Info().Name
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure returns true if this op has no side effects.
func (o Op) IsPure() bool {
	return o.Info().IsPure
}

// IsVoid returns true if this op produces no value.
func (o Op) IsVoid() bool {
	return o.Info().IsVoid
}
