package ast

import "fmt"

type NodeType string

const (
	NodeModule               NodeType = "Module"
	NodeIntegerLiteral       NodeType = "IntegerLiteral"
	NodeIdentifier           NodeType = "Identifier"
	NodeBinaryExpression     NodeType = "BinaryExpression"
	NodeAssignmentExpression NodeType = "AssignmentExpression"
	NodePrintStatement       NodeType = "PrintStatement"
	NodeBlockExpression      NodeType = "BlockExpression"
	NodeIfExpression         NodeType = "IfExpression"
	NodeWhileLoop            NodeType = "WhileLoop"
	NodeFunctionDefinition   NodeType = "FunctionDefinition"
	NodeFunctionCall         NodeType = "FunctionCall"
	NodeReturnStatement      NodeType = "ReturnStatement"
)

// Node is implemented by every variant in this package and nothing else.
type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Operators

type BinaryOperator string

const (
	OpAdd BinaryOperator = "+"
	OpSub BinaryOperator = "-"
	OpMul BinaryOperator = "*"
	OpDiv BinaryOperator = "/"
	OpLt  BinaryOperator = "<"
	OpLeq BinaryOperator = "<="
	OpGt  BinaryOperator = ">"
	OpGeq BinaryOperator = ">="
	OpEq  BinaryOperator = "=="
	OpNeq BinaryOperator = "!="
)

var operatorNames = map[BinaryOperator]string{
	OpAdd: "Add",
	OpSub: "Sub",
	OpMul: "Mul",
	OpDiv: "Div",
	OpLt:  "Lt",
	OpLeq: "Leq",
	OpGt:  "Gt",
	OpGeq: "Geq",
	OpEq:  "Eq",
	OpNeq: "Neq",
}

// Name returns the kind name of the operator (Add, Sub, ...).
func (op BinaryOperator) Name() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return string(op)
}

// IsComparison reports whether the operator yields 1/0 rather than an arithmetic result.
func (op BinaryOperator) IsComparison() bool {
	switch op {
	case OpLt, OpLeq, OpGt, OpGeq, OpEq, OpNeq:
		return true
	default:
		return false
	}
}

// ParseBinaryOperator accepts either the symbol ("<=") or the kind name ("Leq").
func ParseBinaryOperator(raw string) (BinaryOperator, error) {
	op := BinaryOperator(raw)
	if _, ok := operatorNames[op]; ok {
		return op, nil
	}
	for sym, name := range operatorNames {
		if name == raw {
			return sym, nil
		}
	}
	return "", fmt.Errorf("unknown binary operator %q", raw)
}

// Module is the root sequence of top-level statements.

type Module struct {
	nodeImpl

	Body []Node `json:"body"`
}

func NewModule(body []Node) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Body: body}
}

// Literals and references

type IntegerLiteral struct {
	nodeImpl

	Value int32 `json:"value"`
}

func NewIntegerLiteral(value int32) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type Identifier struct {
	nodeImpl

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Expressions

type BinaryExpression struct {
	nodeImpl

	Operator BinaryOperator `json:"operator"`
	Left     Node           `json:"left"`
	Right    Node           `json:"right"`
}

func NewBinaryExpression(operator BinaryOperator, left, right Node) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type AssignmentExpression struct {
	nodeImpl

	Name  string `json:"name"`
	Value Node   `json:"value"`
}

func NewAssignmentExpression(name string, value Node) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Name: name, Value: value}
}

type PrintStatement struct {
	nodeImpl

	Value Node `json:"value"`
}

func NewPrintStatement(value Node) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Value: value}
}

// Control flow

type BlockExpression struct {
	nodeImpl

	Body []Node `json:"body"`
}

func NewBlockExpression(body []Node) *BlockExpression {
	return &BlockExpression{nodeImpl: newNodeImpl(NodeBlockExpression), Body: body}
}

// IfExpression evaluates Then or Else, never both. Else may be nil.
type IfExpression struct {
	nodeImpl

	Condition Node `json:"condition"`
	Then      Node `json:"then"`
	Else      Node `json:"else,omitempty"`
}

func NewIfExpression(condition, then, els Node) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Condition: condition, Then: then, Else: els}
}

type WhileLoop struct {
	nodeImpl

	Condition Node `json:"condition"`
	Body      Node `json:"body"`
}

func NewWhileLoop(condition, body Node) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

// Functions

type FunctionDefinition struct {
	nodeImpl

	ID     string   `json:"id"`
	Params []string `json:"params"`
	Body   []Node   `json:"body"`
}

func NewFunctionDefinition(id string, params []string, body []Node) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, Body: body}
}

type FunctionCall struct {
	nodeImpl

	Callee    string `json:"callee"`
	Arguments []Node `json:"arguments"`
}

func NewFunctionCall(callee string, args []Node) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

// ReturnStatement evaluates its argument in place. It does not leave the enclosing
// function; only the last statement of a body determines a call's result.
type ReturnStatement struct {
	nodeImpl

	Argument Node `json:"argument"`
}

func NewReturnStatement(argument Node) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}
