package ssa

import "fmt"

// Type is the result type of a Value.
// The language has a single value type, float; the others only
// appear inside generated code.
type Type uint8

const (
	TypeVoid  Type = iota // no result (Store)
	TypeFloat             // 64-bit float, the language value
	TypeBool              // comparison result, branch condition
	TypePtr               // storage slot address (Alloca)
)

var typeNames = [...]string{
	TypeVoid:  "void",
	TypeFloat: "double",
	TypeBool:  "bool",
	TypePtr:   "ptr",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}
