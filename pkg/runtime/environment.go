// Package runtime holds the state shared by every node evaluated in one run.
//
// An Environment has a single flat variable table and a single function table.
// There are no nested scopes: function calls bind parameters in the same table
// as top-level code. An Environment is not safe for concurrent use; hosts that
// share one between goroutines must synchronise access themselves.
package runtime

import "sort"

// Environment is the global store of variable bindings and function definitions.
type Environment struct {
	variables map[string]int32
	functions map[string]*FunctionDefinition
}

// NewEnvironment creates an environment with empty variable and function tables.
func NewEnvironment() *Environment {
	return &Environment{
		variables: make(map[string]int32),
		functions: make(map[string]*FunctionDefinition),
	}
}

// GetVariable returns the stored value, or 0 when name was never written.
func (e *Environment) GetVariable(name string) int32 {
	return e.variables[name]
}

// SetVariable creates or overwrites a binding.
func (e *Environment) SetVariable(name string, value int32) {
	e.variables[name] = value
}

// HasVariable reports whether name has been written at least once.
func (e *Environment) HasVariable(name string) bool {
	_, ok := e.variables[name]
	return ok
}

// DefineFunction creates or overwrites the entry for name.
func (e *Environment) DefineFunction(name string, def *FunctionDefinition) {
	e.functions[name] = def
}

// LookupFunction returns the current definition for name.
func (e *Environment) LookupFunction(name string) (*FunctionDefinition, bool) {
	def, ok := e.functions[name]
	return def, ok
}

// Variables returns a copy of the variable table.
func (e *Environment) Variables() map[string]int32 {
	out := make(map[string]int32, len(e.variables))
	for k, v := range e.variables {
		out[k] = v
	}
	return out
}

// VariableNames returns the bound variable names in sorted order.
func (e *Environment) VariableNames() []string {
	keys := make([]string, 0, len(e.variables))
	for k := range e.variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FunctionNames returns the defined function names in sorted order.
func (e *Environment) FunctionNames() []string {
	keys := make([]string, 0, len(e.functions))
	for k := range e.functions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
