// Package interpreter evaluates AST nodes against a shared runtime.Environment.
//
// Evaluation is synchronous and recursive. Every nested evaluation counts
// towards a depth limit, so runaway recursion in a program surfaces as
// ErrDepthLimitExceeded instead of exhausting the Go stack.
package interpreter

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/oeldar/simple-language-interpreter/pkg/ast"
	"github.com/oeldar/simple-language-interpreter/pkg/runtime"
)

// DefaultMaxDepth bounds nested evaluation when no other limit is configured.
const DefaultMaxDepth = 100000

// Interpreter drives evaluation of AST nodes.
type Interpreter struct {
	env      *runtime.Environment
	stdout   io.Writer
	logger   *slog.Logger
	maxDepth int

	depth     int
	callStack []string
}

// New returns an interpreter with an empty environment writing Print output to os.Stdout.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		env:      runtime.NewEnvironment(),
		stdout:   os.Stdout,
		logger:   defaultLogger(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Environment returns the store shared by every evaluation on this interpreter.
func (i *Interpreter) Environment() *runtime.Environment {
	return i.env
}

// MaxDepth reports the active nesting limit.
func (i *Interpreter) MaxDepth() int {
	return i.maxDepth
}

// Evaluate evaluates node and returns its value.
func (i *Interpreter) Evaluate(node ast.Node) (int32, error) {
	return i.evaluate(node)
}

// EvaluateModule evaluates each top-level statement in order and returns the
// value of the last one, or 0 for an empty module.
func (i *Interpreter) EvaluateModule(module *ast.Module) (int32, error) {
	if module == nil {
		return 0, nil
	}
	var last int32
	for _, stmt := range module.Body {
		val, err := i.evaluate(stmt)
		if err != nil {
			return 0, err
		}
		last = val
	}
	return last, nil
}

func (i *Interpreter) evaluate(node ast.Node) (int32, error) {
	i.depth++
	defer func() { i.depth-- }()
	if i.depth > i.maxDepth {
		return 0, i.newError(ErrDepthLimitExceeded, nodeTypeOf(node), "", "evaluation exceeded maximum depth of %d", i.maxDepth)
	}

	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return n.Value, nil
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n)
	case *ast.Identifier:
		return i.env.GetVariable(n.Name), nil
	case *ast.AssignmentExpression:
		return i.evaluateAssignmentExpression(n)
	case *ast.IfExpression:
		return i.evaluateIfExpression(n)
	case *ast.PrintStatement:
		return i.evaluatePrintStatement(n)
	case *ast.BlockExpression:
		return i.evaluateBlockExpression(n)
	case *ast.WhileLoop:
		return i.evaluateWhileLoop(n)
	case *ast.FunctionDefinition:
		return i.evaluateFunctionDefinition(n)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n)
	case *ast.ReturnStatement:
		return i.evaluate(n.Argument)
	case *ast.Module:
		return i.EvaluateModule(n)
	case nil:
		return 0, errMissingNode
	default:
		return 0, unsupportedNode(node)
	}
}

func (i *Interpreter) debug(msg string, attrs ...slog.Attr) {
	ctx := context.Background()
	if !i.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	i.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func nodeTypeOf(node ast.Node) ast.NodeType {
	if node == nil {
		return ""
	}
	return node.NodeType()
}
