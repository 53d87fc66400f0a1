package interpreter

import (
	"fmt"
	"log/slog"

	"github.com/oeldar/simple-language-interpreter/pkg/driver"
)

// EvaluateProgram evaluates the setup modules in order and then the entry
// module, all against the interpreter's environment. It returns the entry
// module's value.
func (i *Interpreter) EvaluateProgram(program *driver.Program) (int32, error) {
	if program == nil || program.Entry == nil {
		return 0, fmt.Errorf("interpreter: program has no entry module")
	}
	modules := program.Modules
	if len(modules) == 0 {
		modules = []*driver.Module{program.Entry}
	}
	var result int32
	for _, mod := range modules {
		i.debug("module", slog.String("program", program.Name), slog.String("path", mod.Path))
		val, err := i.EvaluateModule(mod.AST)
		if err != nil {
			return 0, err
		}
		if mod == program.Entry {
			result = val
		}
	}
	return result, nil
}
