// Package rtabi defines the names shared between the code generator and
// the backends that execute or link generated code.
package rtabi

// Generated function names
const (
	// AnonExpr names the function wrapping a top-level expression.
	AnonExpr = "__anon_expr"

	// UnaryPrefix and BinaryPrefix, followed by the operator symbol,
	// name the functions implementing user-defined operators.
	UnaryPrefix  = "unary"
	BinaryPrefix = "binary"
)

// Host function names (available to programs through extern)
const (
	// FnPutchard writes its argument as a single byte and returns 0.
	FnPutchard = "putchard"

	// FnPrintd prints its argument followed by a newline and returns 0.
	FnPrintd = "printd"
)

// FuncSignature describes a host function for declaration and lookup.
// Every parameter and the result are doubles.
type FuncSignature struct {
	Name    string
	NParams int
}

// HostFunctions returns the signatures of all host functions.
func HostFunctions() []FuncSignature {
	return []FuncSignature{
		{Name: FnPutchard, NParams: 1},
		{Name: FnPrintd, NParams: 1},
	}
}

// LookupHost returns the signature of the named host function.
func LookupHost(name string) (FuncSignature, bool) {
	for _, f := range HostFunctions() {
		if f.Name == name {
			return f, true
		}
	}
	return FuncSignature{}, false
}
