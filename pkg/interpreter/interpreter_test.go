package interpreter

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/oeldar/simple-language-interpreter/pkg/ast"
	"github.com/oeldar/simple-language-interpreter/pkg/runtime"
)

func TestIdentifierDefaultsToZero(t *testing.T) {
	interp, _ := newTestInterpreter()
	if got := mustEvaluate(t, interp, ast.ID("x")); got != 0 {
		t.Fatalf("unbound identifier = %d, want 0", got)
	}
}

func TestAssignmentRoundTrip(t *testing.T) {
	interp, _ := newTestInterpreter()
	if got := mustEvaluate(t, interp, ast.Assign("x", ast.Int(7))); got != 7 {
		t.Fatalf("assignment value = %d, want 7", got)
	}
	if got := mustEvaluate(t, interp, ast.ID("x")); got != 7 {
		t.Fatalf("x = %d, want 7", got)
	}
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		name string
		node ast.Node
		want int32
	}{
		{"precedence by tree", ast.Add(ast.Int(2), ast.Mul(ast.Int(3), ast.Int(4))), 14},
		{"subtraction", ast.Sub(ast.Int(3), ast.Int(10)), -7},
		{"division truncates", ast.Div(ast.Int(7), ast.Int(2)), 3},
		{"negative division truncates toward zero", ast.Div(ast.Int(-7), ast.Int(2)), -3},
		{"negative divisor", ast.Div(ast.Int(7), ast.Int(-2)), -3},
		{"add wraps", ast.Add(ast.Int(math.MaxInt32), ast.Int(1)), math.MinInt32},
		{"sub wraps", ast.Sub(ast.Int(math.MinInt32), ast.Int(1)), math.MaxInt32},
		{"mul wraps", ast.Mul(ast.Int(65536), ast.Int(65536)), 0},
		{"min over minus one", ast.Div(ast.Int(math.MinInt32), ast.Int(-1)), math.MinInt32},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			interp, _ := newTestInterpreter()
			if got := mustEvaluate(t, interp, tc.node); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestComparisonsYieldOneOrZero(t *testing.T) {
	cases := []struct {
		node ast.Node
		want int32
	}{
		{ast.Lt(ast.Int(1), ast.Int(2)), 1},
		{ast.Lt(ast.Int(2), ast.Int(2)), 0},
		{ast.Leq(ast.Int(2), ast.Int(2)), 1},
		{ast.Gt(ast.Int(-1), ast.Int(0)), 0},
		{ast.Geq(ast.Int(0), ast.Int(0)), 1},
		{ast.Eq(ast.Int(5), ast.Int(5)), 1},
		{ast.Neq(ast.Int(5), ast.Int(5)), 0},
	}
	interp, _ := newTestInterpreter()
	for idx, tc := range cases {
		if got := mustEvaluate(t, interp, tc.node); got != tc.want {
			t.Fatalf("case %d: got %d, want %d", idx, got, tc.want)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	interp, out := newTestInterpreter()
	_, err := interp.Evaluate(ast.Div(ast.Int(1), ast.Int(0)))
	rtErr := expectRuntimeError(t, err, ErrDivisionByZero)
	if rtErr.Node != ast.NodeBinaryExpression {
		t.Fatalf("error node = %s, want BinaryExpression", rtErr.Node)
	}
	if rtErr.KindName() != "DivisionByZero" || ErrorKind(err) != "DivisionByZero" {
		t.Fatalf("unexpected kind name %q", rtErr.KindName())
	}
	if out.Len() != 0 {
		t.Fatalf("errors must not reach the print output, got %q", out.String())
	}
}

func TestPrintWritesDecimalAndYieldsZero(t *testing.T) {
	interp, out := newTestInterpreter()
	module := ast.Mod(
		ast.Print(ast.Int(5)),
		ast.Print(ast.Sub(ast.Int(0), ast.Int(42))),
		ast.Print(ast.Int(math.MinInt32)),
	)
	if got := mustEvaluateModule(t, interp, module); got != 0 {
		t.Fatalf("print value = %d, want 0", got)
	}
	if diff := cmp.Diff([]string{"5", "-42", "-2147483648"}, outputLines(out)); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestWhileLoopCountsToThree(t *testing.T) {
	interp, _ := newTestInterpreter()
	loop := ast.While(
		ast.Lt(ast.ID("i"), ast.Int(3)),
		ast.Block(ast.Assign("i", ast.Add(ast.ID("i"), ast.Int(1)))),
	)
	if got := mustEvaluate(t, interp, loop); got != 0 {
		t.Fatalf("while value = %d, want 0", got)
	}
	if got := interp.Environment().GetVariable("i"); got != 3 {
		t.Fatalf("i = %d, want 3", got)
	}
}

func TestWhileLoopWithFalseConditionSkipsBody(t *testing.T) {
	interp, out := newTestInterpreter()
	mustEvaluate(t, interp, ast.While(ast.Int(0), ast.Print(ast.Int(1))))
	if out.Len() != 0 {
		t.Fatalf("body ran with false condition: %q", out.String())
	}
}

func TestBlockYieldsZero(t *testing.T) {
	interp, _ := newTestInterpreter()
	if got := mustEvaluate(t, interp, ast.Block(ast.Assign("x", ast.Int(9)), ast.ID("x"))); got != 0 {
		t.Fatalf("block value = %d, want 0", got)
	}
	if got := interp.Environment().GetVariable("x"); got != 9 {
		t.Fatalf("block side effect lost: x = %d", got)
	}
}

func TestIfEvaluatesOnlyTakenBranch(t *testing.T) {
	interp, out := newTestInterpreter()
	got := mustEvaluate(t, interp, ast.IfElse(ast.Int(1), ast.Int(10), ast.Print(ast.Int(99))))
	if got != 10 {
		t.Fatalf("then branch value = %d, want 10", got)
	}
	got = mustEvaluate(t, interp, ast.IfElse(ast.Int(0), ast.Print(ast.Int(98)), ast.Int(20)))
	if got != 20 {
		t.Fatalf("else branch value = %d, want 20", got)
	}
	if out.Len() != 0 {
		t.Fatalf("untaken branch was evaluated: %q", out.String())
	}
	if got := mustEvaluate(t, interp, ast.If(ast.Int(0), ast.Int(5))); got != 0 {
		t.Fatalf("if without else = %d, want 0", got)
	}
	if got := mustEvaluate(t, interp, ast.If(ast.Int(-3), ast.Int(5))); got != 5 {
		t.Fatalf("negative condition should be truthy, got %d", got)
	}
}

func TestBinaryOperandsEvaluateLeftToRight(t *testing.T) {
	interp, _ := newTestInterpreter()
	got := mustEvaluate(t, interp, ast.Sub(ast.Assign("x", ast.Int(10)), ast.Assign("x", ast.Int(3))))
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
	if x := interp.Environment().GetVariable("x"); x != 3 {
		t.Fatalf("x = %d, want 3 from the right operand", x)
	}
}

func TestFunctionLastStatementRule(t *testing.T) {
	interp, out := newTestInterpreter()
	mustEvaluateModule(t, interp, ast.Mod(
		ast.Fn("shout", nil, ast.Print(ast.Int(4))),
		ast.Fn("nine", nil, ast.Ret(ast.Int(9))),
		ast.Fn("sum", []string{"a", "b"}, ast.Add(ast.ID("a"), ast.ID("b"))),
	))
	if got := mustEvaluate(t, interp, ast.Call("shout")); got != 0 {
		t.Fatalf("print-terminated function = %d, want 0", got)
	}
	if got := mustEvaluate(t, interp, ast.Call("nine")); got != 9 {
		t.Fatalf("return-terminated function = %d, want 9", got)
	}
	if got := mustEvaluate(t, interp, ast.Call("sum", ast.Int(2), ast.Int(3))); got != 5 {
		t.Fatalf("expression-terminated function = %d, want 5", got)
	}
	if diff := cmp.Diff([]string{"4"}, outputLines(out)); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestFunctionLastStatementEvaluatedOnce(t *testing.T) {
	interp, out := newTestInterpreter()
	mustEvaluate(t, interp, ast.Fn("bump", nil,
		ast.Assign("n", ast.Add(ast.ID("n"), ast.Int(1))),
	))
	if got := mustEvaluate(t, interp, ast.Call("bump")); got != 1 {
		t.Fatalf("bump() = %d, want 1", got)
	}
	if got := interp.Environment().GetVariable("n"); got != 1 {
		t.Fatalf("last statement ran more than once: n = %d", got)
	}
	mustEvaluate(t, interp, ast.Fn("noisy", nil, ast.Print(ast.Int(7))))
	mustEvaluate(t, interp, ast.Call("noisy"))
	if diff := cmp.Diff([]string{"7"}, outputLines(out)); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestReturnDoesNotExitEarly(t *testing.T) {
	interp, out := newTestInterpreter()
	mustEvaluate(t, interp, ast.Fn("f", nil,
		ast.Ret(ast.Int(1)),
		ast.Print(ast.Int(2)),
		ast.Ret(ast.Int(3)),
	))
	if got := mustEvaluate(t, interp, ast.Call("f")); got != 3 {
		t.Fatalf("f() = %d, want 3", got)
	}
	if diff := cmp.Diff([]string{"2"}, outputLines(out)); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
	if got := mustEvaluate(t, interp, ast.Ret(ast.Int(11))); got != 11 {
		t.Fatalf("top-level return = %d, want 11", got)
	}
}

func TestArgumentsBindInterleaved(t *testing.T) {
	interp, _ := newTestInterpreter()
	mustEvaluateModule(t, interp, ast.Mod(
		ast.Assign("a", ast.Int(100)),
		ast.Fn("f", []string{"a", "b"}, ast.Add(ast.ID("a"), ast.ID("b"))),
	))
	// The second argument reads a after the first parameter was bound.
	if got := mustEvaluate(t, interp, ast.Call("f", ast.Int(5), ast.ID("a"))); got != 10 {
		t.Fatalf("f(5, a) = %d, want 10", got)
	}
	if got := interp.Environment().GetVariable("a"); got != 5 {
		t.Fatalf("parameter binding must persist in the flat table, a = %d", got)
	}
}

func TestArgumentsEvaluateLeftToRight(t *testing.T) {
	interp, out := newTestInterpreter()
	mustEvaluate(t, interp, ast.Fn("pair", []string{"x", "y"}, ast.Sub(ast.ID("x"), ast.ID("y"))))
	got := mustEvaluate(t, interp, ast.Call("pair",
		ast.Block(ast.Print(ast.Int(1))),
		ast.Block(ast.Print(ast.Int(2))),
	))
	if got != 0 {
		t.Fatalf("pair(0, 0) = %d", got)
	}
	if diff := cmp.Diff([]string{"1", "2"}, outputLines(out)); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatScopeIsSharedAcrossRecursion(t *testing.T) {
	interp, _ := newTestInterpreter()
	// n is read before the recursive call rebinds it.
	mustEvaluate(t, interp, ast.Fn("fact", []string{"n"},
		ast.IfElse(
			ast.Leq(ast.ID("n"), ast.Int(1)),
			ast.Ret(ast.Int(1)),
			ast.Ret(ast.Mul(ast.ID("n"), ast.Call("fact", ast.Sub(ast.ID("n"), ast.Int(1))))),
		),
	))
	if got := mustEvaluate(t, interp, ast.Call("fact", ast.Int(5))); got != 120 {
		t.Fatalf("fact(5) = %d, want 120", got)
	}

	// Reading n after the call observes the innermost binding.
	mustEvaluate(t, interp, ast.Fn("late", []string{"n"},
		ast.IfElse(
			ast.Leq(ast.ID("n"), ast.Int(1)),
			ast.Ret(ast.Int(1)),
			ast.Ret(ast.Mul(ast.Call("late", ast.Sub(ast.ID("n"), ast.Int(1))), ast.ID("n"))),
		),
	))
	if got := mustEvaluate(t, interp, ast.Call("late", ast.Int(5))); got != 1 {
		t.Fatalf("late(5) = %d, want 1", got)
	}
}

func TestUndefinedFunction(t *testing.T) {
	interp, _ := newTestInterpreter()
	_, err := interp.Evaluate(ast.Call("missing", ast.Int(1)))
	rtErr := expectRuntimeError(t, err, ErrUndefinedFunction)
	if rtErr.Name != "missing" || rtErr.Node != ast.NodeFunctionCall {
		t.Fatalf("unexpected error context %#v", rtErr)
	}
}

func TestArityMismatchEvaluatesNoArguments(t *testing.T) {
	interp, out := newTestInterpreter()
	mustEvaluate(t, interp, ast.Fn("one", []string{"a"}, ast.ID("a")))
	_, err := interp.Evaluate(ast.Call("one", ast.Print(ast.Int(1)), ast.Assign("z", ast.Int(2))))
	rtErr := expectRuntimeError(t, err, ErrArityMismatch)
	if rtErr.Name != "one" {
		t.Fatalf("error name = %q, want one", rtErr.Name)
	}
	if out.Len() != 0 || interp.Environment().HasVariable("z") {
		t.Fatalf("arguments were evaluated before the arity check")
	}
}

func TestRedefinitionAffectsLaterCalls(t *testing.T) {
	interp, _ := newTestInterpreter()
	mustEvaluate(t, interp, ast.Fn("f", nil, ast.Int(1)))
	if got := mustEvaluate(t, interp, ast.Call("f")); got != 1 {
		t.Fatalf("f() = %d, want 1", got)
	}
	mustEvaluate(t, interp, ast.Fn("f", []string{"x"}, ast.Mul(ast.ID("x"), ast.Int(2))))
	if got := mustEvaluate(t, interp, ast.Call("f", ast.Int(21))); got != 42 {
		t.Fatalf("redefined f(21) = %d, want 42", got)
	}
}

func TestFunctionDefinitionDoesNotRunBody(t *testing.T) {
	interp, out := newTestInterpreter()
	if got := mustEvaluate(t, interp, ast.Fn("p", nil, ast.Print(ast.Int(1)))); got != 0 {
		t.Fatalf("definition value = %d, want 0", got)
	}
	if out.Len() != 0 {
		t.Fatalf("definition evaluated the body: %q", out.String())
	}
}

func TestEmptyFunctionBodyRejected(t *testing.T) {
	interp, _ := newTestInterpreter()
	_, err := interp.Evaluate(ast.Fn("empty", nil))
	rtErr := expectRuntimeError(t, err, ErrInvalidFunctionBody)
	if rtErr.Name != "empty" || rtErr.Node != ast.NodeFunctionDefinition {
		t.Fatalf("unexpected error context %#v", rtErr)
	}
	if _, ok := interp.Environment().LookupFunction("empty"); ok {
		t.Fatalf("invalid definition must not be registered")
	}
}

func TestDepthLimitStopsUnboundedRecursion(t *testing.T) {
	interp, _ := newTestInterpreter(WithMaxDepth(500))
	mustEvaluate(t, interp, ast.Fn("loop", nil, ast.Call("loop")))
	_, err := interp.Evaluate(ast.Call("loop"))
	rtErr := expectRuntimeError(t, err, ErrDepthLimitExceeded)
	if len(rtErr.CallStack) == 0 || rtErr.CallStack[0] != "loop" {
		t.Fatalf("expected loop frames on the call stack, got %v", rtErr.CallStack)
	}
	// State unwinds so the interpreter stays usable.
	if interp.depth != 0 || len(interp.callStack) != 0 {
		t.Fatalf("depth %d and call stack %v not unwound", interp.depth, interp.callStack)
	}
	if got := mustEvaluate(t, interp, ast.Add(ast.Int(1), ast.Int(1))); got != 2 {
		t.Fatalf("interpreter unusable after depth error, got %d", got)
	}
}

func TestDeepRecursionWithinDefaultLimit(t *testing.T) {
	interp, _ := newTestInterpreter()
	if interp.MaxDepth() != DefaultMaxDepth {
		t.Fatalf("MaxDepth = %d, want %d", interp.MaxDepth(), DefaultMaxDepth)
	}
	mustEvaluate(t, interp, ast.Fn("down", []string{"n"},
		ast.IfElse(
			ast.Gt(ast.ID("n"), ast.Int(0)),
			ast.Add(ast.Call("down", ast.Sub(ast.ID("n"), ast.Int(1))), ast.Int(1)),
			ast.Int(0),
		),
	))
	if got := mustEvaluate(t, interp, ast.Call("down", ast.Int(1000))); got != 1000 {
		t.Fatalf("down(1000) = %d, want 1000", got)
	}
}

func TestDeeplyNestedExpressionHitsLimit(t *testing.T) {
	interp, _ := newTestInterpreter(WithMaxDepth(64))
	var node ast.Node = ast.Int(1)
	for range 100 {
		node = ast.Add(node, ast.Int(1))
	}
	_, err := interp.Evaluate(node)
	expectRuntimeError(t, err, ErrDepthLimitExceeded)
}

func TestWithMaxDepthNonPositiveSelectsDefault(t *testing.T) {
	interp := New(WithMaxDepth(0))
	if interp.MaxDepth() != DefaultMaxDepth {
		t.Fatalf("MaxDepth = %d, want default", interp.MaxDepth())
	}
}

func TestEvaluateModuleReturnsLastValue(t *testing.T) {
	interp, _ := newTestInterpreter()
	if got := mustEvaluateModule(t, interp, ast.Mod()); got != 0 {
		t.Fatalf("empty module = %d, want 0", got)
	}
	got := mustEvaluateModule(t, interp, ast.Mod(ast.Assign("x", ast.Int(4)), ast.Mul(ast.ID("x"), ast.Int(3))))
	if got != 12 {
		t.Fatalf("module value = %d, want 12", got)
	}
}

func TestCallFunctionFromHost(t *testing.T) {
	interp, _ := newTestInterpreter()
	mustEvaluate(t, interp, ast.Fn("sub", []string{"a", "b"}, ast.Sub(ast.ID("a"), ast.ID("b"))))
	got, err := interp.CallFunction("sub", 10, 4)
	if err != nil {
		t.Fatalf("CallFunction: %v", err)
	}
	if got != 6 {
		t.Fatalf("sub(10, 4) = %d, want 6", got)
	}
	_, err = interp.CallFunction("sub", 1)
	expectRuntimeError(t, err, ErrArityMismatch)
	_, err = interp.CallFunction("nope")
	expectRuntimeError(t, err, ErrUndefinedFunction)
}

func TestSharedEnvironment(t *testing.T) {
	env := runtime.NewEnvironment()
	env.SetVariable("seed", 3)
	first, _ := newTestInterpreter(WithEnvironment(env))
	second, _ := newTestInterpreter(WithEnvironment(env))
	mustEvaluate(t, first, ast.Assign("seed", ast.Mul(ast.ID("seed"), ast.Int(2))))
	if got := mustEvaluate(t, second, ast.ID("seed")); got != 6 {
		t.Fatalf("seed = %d, want 6", got)
	}
	if second.Environment() != env {
		t.Fatalf("Environment() did not return the shared environment")
	}
}

func TestUnsupportedOperatorIsPlainError(t *testing.T) {
	interp, _ := newTestInterpreter()
	_, err := interp.Evaluate(ast.Bin(ast.BinaryOperator("%"), ast.Int(1), ast.Int(2)))
	if err == nil {
		t.Fatalf("expected error for unknown operator")
	}
	if ErrorKind(err) != "" {
		t.Fatalf("unknown operator should not map to a runtime error kind, got %q", ErrorKind(err))
	}
}
