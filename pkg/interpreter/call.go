package interpreter

import (
	"log/slog"

	"github.com/oeldar/simple-language-interpreter/pkg/ast"
	"github.com/oeldar/simple-language-interpreter/pkg/runtime"
)

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall) (int32, error) {
	fn, err := i.resolveCallee(call.Callee, len(call.Arguments))
	if err != nil {
		return 0, err
	}
	// Parameters share the flat table, so argument i+1 observes the binding of parameter i.
	for idx, arg := range call.Arguments {
		val, err := i.evaluate(arg)
		if err != nil {
			return 0, err
		}
		i.env.SetVariable(fn.Parameters[idx], val)
	}
	return i.invokeFunction(fn)
}

// CallFunction calls a defined function with already evaluated arguments.
func (i *Interpreter) CallFunction(name string, args ...int32) (int32, error) {
	fn, err := i.resolveCallee(name, len(args))
	if err != nil {
		return 0, err
	}
	for idx, val := range args {
		i.env.SetVariable(fn.Parameters[idx], val)
	}
	return i.invokeFunction(fn)
}

func (i *Interpreter) resolveCallee(name string, argc int) (*runtime.FunctionDefinition, error) {
	fn, ok := i.env.LookupFunction(name)
	if !ok || fn == nil {
		return nil, i.newError(ErrUndefinedFunction, ast.NodeFunctionCall, name, "function %s is not defined", name)
	}
	if argc != fn.Arity() {
		return nil, i.newError(ErrArityMismatch, ast.NodeFunctionCall, name, "function %s expects %d arguments, got %d", name, fn.Arity(), argc)
	}
	return fn, nil
}

func (i *Interpreter) invokeFunction(fn *runtime.FunctionDefinition) (int32, error) {
	last := fn.LastStatement()
	if last == nil {
		return 0, i.newError(ErrInvalidFunctionBody, ast.NodeFunctionCall, fn.Name, "function %s has an empty body", fn.Name)
	}

	i.callStack = append(i.callStack, fn.Name)
	defer func() { i.callStack = i.callStack[:len(i.callStack)-1] }()
	i.debug("function call", slog.String("name", fn.Name), slog.Int("arity", fn.Arity()), slog.Int("depth", len(i.callStack)))

	var result int32
	for _, stmt := range fn.Body {
		val, err := i.evaluate(stmt)
		if err != nil {
			return 0, err
		}
		result = val
	}
	if _, ok := last.(*ast.PrintStatement); ok {
		result = 0
	}

	i.debug("function return", slog.String("name", fn.Name), slog.Int("depth", len(i.callStack)), slog.Int("value", int(result)))
	return result, nil
}
