// Package llvm lowers declared cobalt types and globals to an LLVM module.
package llvm

import (
	"fmt"
	"io"
	"strings"

	"tinygo.org/x/go-llvm"

	"github.com/cobalt-lang/cobalt/internal/config"
	"github.com/cobalt-lang/cobalt/internal/scope"
)

type llvmCodegen struct {
	context llvm.Context
	module  llvm.Module
}

func NewCG(name string) *llvmCodegen {
	context := llvm.NewContext()
	module := context.NewModule(name)

	defaultTargetTriple := llvm.DefaultTargetTriple()
	module.SetTarget(defaultTargetTriple)

	return &llvmCodegen{
		context: context,
		module:  module,
	}
}

func (c *llvmCodegen) Dispose() {
	c.module.Dispose()
	c.context.Dispose()
}

func (c *llvmCodegen) Module() llvm.Module { return c.module }

// DeclareGlobals adds a zero-initialized global for every valid, typed
// variable reachable from vm and stores it as the variable's CompVal. Globals
// are named after the variable's qualified name. A variable reachable under
// several names, such as one that was imported, is declared once. Variables
// whose type cannot be lowered are returned by qualified name.
func (c *llvmCodegen) DeclareGlobals(vm *scope.VarMap) []string {
	var skipped []string
	c.declareModule(vm.Symbols, nil, &skipped)
	return skipped
}

func (c *llvmCodegen) declareModule(mod scope.Module, prefix []string, skipped *[]string) {
	for _, key := range mod.Keys() {
		sym := mod[key]
		name := append(prefix[:len(prefix):len(prefix)], key)

		if sym.IsModule() {
			c.declareModule(sym.Mod, name, skipped)
			continue
		}

		v := sym.Var
		if !v.Good || v.Type == nil || v.CompVal != nil {
			continue
		}

		ty, ok := LowerType(c.context, v.Type)
		if !ok {
			*skipped = append(*skipped, strings.Join(name, "."))
			continue
		}

		global := llvm.AddGlobal(c.module, ty, strings.Join(name, "."))
		global.SetInitializer(llvm.ConstNull(ty))
		v.CompVal = NewVariableValue(ty, global)
	}
}

// Generate writes the module as textual IR. Debug builds verify the module
// first.
func (c *llvmCodegen) Generate(w io.Writer, buildType config.BuildType) error {
	if buildType == config.DEBUG {
		if err := llvm.VerifyModule(c.module, llvm.ReturnStatusAction); err != nil {
			return fmt.Errorf("invalid module: %w", err)
		}
	}
	_, err := io.WriteString(w, c.module.String())
	return err
}

// Bitcode returns the module encoded as LLVM bitcode.
func (c *llvmCodegen) Bitcode() []byte {
	buf := llvm.WriteBitcodeToMemoryBuffer(c.module)
	defer buf.Dispose()
	return append([]byte(nil), buf.Bytes()...)
}
