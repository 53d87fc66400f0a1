package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oeldar/simple-language-interpreter/pkg/ast"
)

// Error kinds. Match them with errors.Is against any error returned by the interpreter.
var (
	ErrDivisionByZero      = errors.New("division by zero")
	ErrUndefinedFunction   = errors.New("undefined function")
	ErrArityMismatch       = errors.New("arity mismatch")
	ErrInvalidFunctionBody = errors.New("invalid function body")
	ErrDepthLimitExceeded  = errors.New("depth limit exceeded")
)

var errMissingNode = errors.New("interpreter: missing node")

var errorKinds = map[error]string{
	ErrDivisionByZero:      "DivisionByZero",
	ErrUndefinedFunction:   "UndefinedFunction",
	ErrArityMismatch:       "ArityMismatch",
	ErrInvalidFunctionBody: "InvalidFunctionBody",
	ErrDepthLimitExceeded:  "DepthLimitExceeded",
}

// RuntimeError is returned for every failure raised while evaluating a program.
type RuntimeError struct {
	// Kind is one of the Err* sentinels.
	Kind error
	// Node is the type of the node that failed.
	Node ast.NodeType
	// Name is the function involved, if any.
	Name    string
	Message string
	// CallStack lists the active function calls, outermost first.
	CallStack []string
}

func (e *RuntimeError) Error() string {
	if e.Message == "" {
		return e.KindName()
	}
	return fmt.Sprintf("%s: %s", e.KindName(), e.Message)
}

func (e *RuntimeError) Unwrap() error {
	return e.Kind
}

// KindName returns the stable name of the error kind, e.g. "DivisionByZero".
func (e *RuntimeError) KindName() string {
	if name, ok := errorKinds[e.Kind]; ok {
		return name
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "RuntimeError"
}

// ErrorKind returns the kind name carried by err, or "" when err did not come
// from a failed evaluation.
func ErrorKind(err error) string {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return rtErr.KindName()
	}
	return ""
}

func (i *Interpreter) newError(kind error, node ast.NodeType, name, format string, args ...any) *RuntimeError {
	var stack []string
	if len(i.callStack) > 0 {
		stack = append([]string(nil), i.callStack...)
	}
	return &RuntimeError{
		Kind:      kind,
		Node:      node,
		Name:      name,
		Message:   fmt.Sprintf(format, args...),
		CallStack: stack,
	}
}

func unsupportedNode(node ast.Node) error {
	return fmt.Errorf("interpreter: unsupported node type %s", node.NodeType())
}

// DescribeRuntimeError renders err for display, adding one note per active call.
func DescribeRuntimeError(err error) string {
	if err == nil {
		return ""
	}
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		return "runtime: " + strings.TrimSpace(err.Error())
	}
	var b strings.Builder
	b.WriteString("runtime: ")
	b.WriteString(rtErr.Error())
	if rtErr.Node != "" {
		fmt.Fprintf(&b, " (in %s)", rtErr.Node)
	}
	for idx := len(rtErr.CallStack) - 1; idx >= 0; idx-- {
		fmt.Fprintf(&b, "\nnote: called from %s", rtErr.CallStack[idx])
	}
	return b.String()
}
