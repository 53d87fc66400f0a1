package interpreter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/oeldar/simple-language-interpreter/pkg/ast"
)

func newTestInterpreter(opts ...Option) (*Interpreter, *bytes.Buffer) {
	var out bytes.Buffer
	return New(append([]Option{WithStdout(&out)}, opts...)...), &out
}

func mustEvaluate(t *testing.T, interp *Interpreter, node ast.Node) int32 {
	t.Helper()
	val, err := interp.Evaluate(node)
	if err != nil {
		t.Fatalf("evaluation error: %v", err)
	}
	return val
}

func mustEvaluateModule(t *testing.T, interp *Interpreter, module *ast.Module) int32 {
	t.Helper()
	val, err := interp.EvaluateModule(module)
	if err != nil {
		t.Fatalf("module evaluation error: %v", err)
	}
	return val
}

func expectRuntimeError(t *testing.T, err, kind error) *RuntimeError {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	return rtErr
}

func outputLines(out *bytes.Buffer) []string {
	text := strings.TrimSuffix(out.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
