package runtime

import "github.com/oeldar/simple-language-interpreter/pkg/ast"

// FunctionDefinition is the registered form of a function. Calls look it up by
// name each time, so a redefinition is seen by every later call.
type FunctionDefinition struct {
	Name       string
	Parameters []string
	Body       []ast.Node
}

// NewFunctionDefinition captures the parameters and body of a definition node.
func NewFunctionDefinition(def *ast.FunctionDefinition) *FunctionDefinition {
	return &FunctionDefinition{
		Name:       def.ID,
		Parameters: def.Params,
		Body:       def.Body,
	}
}

// Arity is the number of declared parameters.
func (f *FunctionDefinition) Arity() int {
	return len(f.Parameters)
}

// LastStatement returns the final body statement, or nil for an empty body.
func (f *FunctionDefinition) LastStatement() ast.Node {
	if len(f.Body) == 0 {
		return nil
	}
	return f.Body[len(f.Body)-1]
}
