package ast

// Literal and reference helpers.

func Int(value int32) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

// Operator helpers.

func Bin(op BinaryOperator, left, right Node) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Add(left, right Node) *BinaryExpression { return Bin(OpAdd, left, right) }
func Sub(left, right Node) *BinaryExpression { return Bin(OpSub, left, right) }
func Mul(left, right Node) *BinaryExpression { return Bin(OpMul, left, right) }
func Div(left, right Node) *BinaryExpression { return Bin(OpDiv, left, right) }
func Lt(left, right Node) *BinaryExpression  { return Bin(OpLt, left, right) }
func Leq(left, right Node) *BinaryExpression { return Bin(OpLeq, left, right) }
func Gt(left, right Node) *BinaryExpression  { return Bin(OpGt, left, right) }
func Geq(left, right Node) *BinaryExpression { return Bin(OpGeq, left, right) }
func Eq(left, right Node) *BinaryExpression  { return Bin(OpEq, left, right) }
func Neq(left, right Node) *BinaryExpression { return Bin(OpNeq, left, right) }

// Statement helpers.

func Assign(name string, value Node) *AssignmentExpression {
	return NewAssignmentExpression(name, value)
}

func Print(value Node) *PrintStatement {
	return NewPrintStatement(value)
}

func Block(body ...Node) *BlockExpression {
	return NewBlockExpression(body)
}

func If(condition, then Node) *IfExpression {
	return NewIfExpression(condition, then, nil)
}

func IfElse(condition, then, els Node) *IfExpression {
	return NewIfExpression(condition, then, els)
}

func While(condition, body Node) *WhileLoop {
	return NewWhileLoop(condition, body)
}

func Fn(name string, params []string, body ...Node) *FunctionDefinition {
	return NewFunctionDefinition(name, params, body)
}

func Call(name string, args ...Node) *FunctionCall {
	return NewFunctionCall(name, args)
}

func Ret(argument Node) *ReturnStatement {
	return NewReturnStatement(argument)
}

func Mod(body ...Node) *Module {
	return NewModule(body)
}
