package ast

// Children returns the direct child nodes of n in evaluation order.
// Absent optional children (an If without else) are omitted.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Module:
		return n.Body
	case *BlockExpression:
		return n.Body
	case *BinaryExpression:
		return []Node{n.Left, n.Right}
	case *AssignmentExpression:
		return []Node{n.Value}
	case *PrintStatement:
		return []Node{n.Value}
	case *ReturnStatement:
		return []Node{n.Argument}
	case *IfExpression:
		if n.Else == nil {
			return []Node{n.Condition, n.Then}
		}
		return []Node{n.Condition, n.Then, n.Else}
	case *WhileLoop:
		return []Node{n.Condition, n.Body}
	case *FunctionDefinition:
		return n.Body
	case *FunctionCall:
		return n.Arguments
	default:
		return nil
	}
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the node just visited.
func Walk(n Node, fn func(node Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, child := range Children(n) {
		walk(child, depth+1, fn)
	}
}

// Stats summarises the size of a tree.
type Stats struct {
	Nodes     int
	MaxDepth  int
	Functions []string
}

// Measure walks n and reports its node count, depth and defined function names.
func Measure(n Node) Stats {
	var stats Stats
	Walk(n, func(node Node, depth int) bool {
		stats.Nodes++
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		if def, ok := node.(*FunctionDefinition); ok {
			stats.Functions = append(stats.Functions, def.ID)
		}
		return true
	})
	return stats
}
