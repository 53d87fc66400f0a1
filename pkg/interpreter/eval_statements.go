package interpreter

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/oeldar/simple-language-interpreter/pkg/ast"
	"github.com/oeldar/simple-language-interpreter/pkg/runtime"
)

func (i *Interpreter) evaluatePrintStatement(stmt *ast.PrintStatement) (int32, error) {
	val, err := i.evaluate(stmt.Value)
	if err != nil {
		return 0, err
	}
	buf := strconv.AppendInt(make([]byte, 0, 12), int64(val), 10)
	buf = append(buf, '\n')
	if _, err := i.stdout.Write(buf); err != nil {
		return 0, fmt.Errorf("interpreter: write output: %w", err)
	}
	return 0, nil
}

// Blocks are evaluated for effect only.
func (i *Interpreter) evaluateBlockExpression(block *ast.BlockExpression) (int32, error) {
	for _, stmt := range block.Body {
		if _, err := i.evaluate(stmt); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

func (i *Interpreter) evaluateWhileLoop(loop *ast.WhileLoop) (int32, error) {
	for {
		cond, err := i.evaluate(loop.Condition)
		if err != nil {
			return 0, err
		}
		if cond == 0 {
			return 0, nil
		}
		if _, err := i.evaluate(loop.Body); err != nil {
			return 0, err
		}
	}
}

func (i *Interpreter) evaluateFunctionDefinition(def *ast.FunctionDefinition) (int32, error) {
	if len(def.Body) == 0 {
		return 0, i.newError(ErrInvalidFunctionBody, def.NodeType(), def.ID, "function %s has an empty body", def.ID)
	}
	fn := runtime.NewFunctionDefinition(def)
	i.env.DefineFunction(def.ID, fn)
	i.debug("function defined", slog.String("name", fn.Name), slog.Int("arity", fn.Arity()))
	return 0, nil
}
