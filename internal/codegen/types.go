package codegen

import (
	"github.com/llir/llvm/ir/types"

	"github.com/you-not-fish/kaleido/internal/ssa"
)

// llvmType maps an SSA value type to its LLVM type.
// Slots only ever hold doubles.
func llvmType(t ssa.Type) types.Type {
	switch t {
	case ssa.TypeFloat:
		return types.Double
	case ssa.TypeBool:
		return types.I1
	case ssa.TypePtr:
		return types.NewPointer(types.Double)
	default:
		return types.Void
	}
}
