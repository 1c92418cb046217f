package compiler

import "io"

// Config controls a Session. The zero value is usable.
type Config struct {
	// ModuleName names the modules the session creates.
	// Defaults to "kaleido".
	ModuleName string

	// Verify checks every built function with ssa.VerifyDom.
	// A function that fails is reported as the construct's error.
	Verify bool

	// DumpSSA, if set, receives the SSA form of every built function.
	DumpSSA io.Writer
}

func (c Config) moduleName() string {
	if c.ModuleName == "" {
		return "kaleido"
	}

	return c.ModuleName
}
