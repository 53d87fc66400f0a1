package interpreter

import (
	"fmt"

	"github.com/oeldar/simple-language-interpreter/pkg/ast"
)

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression) (int32, error) {
	left, err := i.evaluate(expr.Left)
	if err != nil {
		return 0, err
	}
	right, err := i.evaluate(expr.Right)
	if err != nil {
		return 0, err
	}
	switch expr.Operator {
	case ast.OpAdd:
		return left + right, nil
	case ast.OpSub:
		return left - right, nil
	case ast.OpMul:
		return left * right, nil
	case ast.OpDiv:
		if right == 0 {
			return 0, i.newError(ErrDivisionByZero, expr.NodeType(), "", "%d / 0", left)
		}
		// Go defines MinInt32 / -1 as MinInt32.
		return left / right, nil
	case ast.OpLt:
		return boolToInt(left < right), nil
	case ast.OpLeq:
		return boolToInt(left <= right), nil
	case ast.OpGt:
		return boolToInt(left > right), nil
	case ast.OpGeq:
		return boolToInt(left >= right), nil
	case ast.OpEq:
		return boolToInt(left == right), nil
	case ast.OpNeq:
		return boolToInt(left != right), nil
	default:
		return 0, fmt.Errorf("interpreter: unsupported binary operator %q", expr.Operator)
	}
}

func (i *Interpreter) evaluateAssignmentExpression(expr *ast.AssignmentExpression) (int32, error) {
	val, err := i.evaluate(expr.Value)
	if err != nil {
		return 0, err
	}
	i.env.SetVariable(expr.Name, val)
	return val, nil
}

func (i *Interpreter) evaluateIfExpression(expr *ast.IfExpression) (int32, error) {
	cond, err := i.evaluate(expr.Condition)
	if err != nil {
		return 0, err
	}
	if cond != 0 {
		return i.evaluate(expr.Then)
	}
	if expr.Else == nil {
		return 0, nil
	}
	return i.evaluate(expr.Else)
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
