package driver

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/oeldar/simple-language-interpreter/pkg/ast"
)

// DecodeNode converts a generic document tree (as produced by encoding/json or
// yaml.v3 unmarshalling into any) into a typed AST node.
func DecodeNode(raw any) (ast.Node, error) {
	return decodeNode(raw, "")
}

// DecodeModule decodes a document whose root is a Module or a single node.
// A single node is wrapped in a Module.
func DecodeModule(raw any) (*ast.Module, error) {
	node, err := DecodeNode(raw)
	if err != nil {
		return nil, err
	}
	if mod, ok := node.(*ast.Module); ok {
		return mod, nil
	}
	return ast.NewModule([]ast.Node{node}), nil
}

func decodeNode(raw any, path string) (ast.Node, error) {
	node, ok := asObject(raw)
	if !ok {
		return nil, decodeErrorf(path, "expected node object, got %T", raw)
	}
	typ, _ := node["type"].(string)
	switch ast.NodeType(typ) {
	case ast.NodeModule:
		body, err := decodeNodeList(node, "body", path)
		if err != nil {
			return nil, err
		}
		return ast.NewModule(body), nil
	case ast.NodeIntegerLiteral:
		value, err := decodeInt32(node["value"], joinPath(path, "value"))
		if err != nil {
			return nil, err
		}
		return ast.NewIntegerLiteral(value), nil
	case ast.NodeIdentifier:
		name, err := requireString(node, "name", path)
		if err != nil {
			return nil, err
		}
		return ast.NewIdentifier(name), nil
	case ast.NodeBinaryExpression:
		rawOp, err := requireString(node, "operator", path)
		if err != nil {
			return nil, err
		}
		op, err := ast.ParseBinaryOperator(rawOp)
		if err != nil {
			return nil, decodeErrorf(joinPath(path, "operator"), "%v", err)
		}
		left, err := decodeChild(node, "left", path)
		if err != nil {
			return nil, err
		}
		right, err := decodeChild(node, "right", path)
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpression(op, left, right), nil
	case ast.NodeAssignmentExpression:
		name, err := requireString(node, "name", path)
		if err != nil {
			return nil, err
		}
		value, err := decodeChild(node, "value", path)
		if err != nil {
			return nil, err
		}
		return ast.NewAssignmentExpression(name, value), nil
	case ast.NodePrintStatement:
		value, err := decodeChild(node, "value", path)
		if err != nil {
			return nil, err
		}
		return ast.NewPrintStatement(value), nil
	case ast.NodeBlockExpression:
		body, err := decodeNodeList(node, "body", path)
		if err != nil {
			return nil, err
		}
		return ast.NewBlockExpression(body), nil
	case ast.NodeIfExpression:
		cond, err := decodeChild(node, "condition", path)
		if err != nil {
			return nil, err
		}
		then, err := decodeChild(node, "then", path)
		if err != nil {
			return nil, err
		}
		var els ast.Node
		if rawElse, ok := node["else"]; ok && rawElse != nil {
			els, err = decodeNode(rawElse, joinPath(path, "else"))
			if err != nil {
				return nil, err
			}
		}
		return ast.NewIfExpression(cond, then, els), nil
	case ast.NodeWhileLoop:
		cond, err := decodeChild(node, "condition", path)
		if err != nil {
			return nil, err
		}
		body, err := decodeChild(node, "body", path)
		if err != nil {
			return nil, err
		}
		return ast.NewWhileLoop(cond, body), nil
	case ast.NodeFunctionDefinition:
		id, err := requireString(node, "id", path)
		if err != nil {
			return nil, err
		}
		params, err := decodeStringList(node, "params", path)
		if err != nil {
			return nil, err
		}
		body, err := decodeNodeList(node, "body", path)
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionDefinition(id, params, body), nil
	case ast.NodeFunctionCall:
		callee, err := requireString(node, "callee", path)
		if err != nil {
			return nil, err
		}
		args, err := decodeNodeList(node, "arguments", path)
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionCall(callee, args), nil
	case ast.NodeReturnStatement:
		arg, err := decodeChild(node, "argument", path)
		if err != nil {
			return nil, err
		}
		return ast.NewReturnStatement(arg), nil
	case "":
		return nil, decodeErrorf(path, "node is missing a type")
	default:
		return nil, decodeErrorf(path, "unsupported node type %q", typ)
	}
}

func decodeChild(node map[string]any, key, path string) (ast.Node, error) {
	raw, ok := node[key]
	if !ok || raw == nil {
		return nil, decodeErrorf(joinPath(path, key), "missing required node")
	}
	return decodeNode(raw, joinPath(path, key))
}

func decodeNodeList(node map[string]any, key, path string) ([]ast.Node, error) {
	raw, ok := node[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, decodeErrorf(joinPath(path, key), "expected list, got %T", raw)
	}
	out := make([]ast.Node, 0, len(items))
	for idx, item := range items {
		child, err := decodeNode(item, indexPath(joinPath(path, key), idx))
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

func decodeStringList(node map[string]any, key, path string) ([]string, error) {
	raw, ok := node[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, decodeErrorf(joinPath(path, key), "expected list of names, got %T", raw)
	}
	out := make([]string, 0, len(items))
	for idx, item := range items {
		name, ok := item.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, decodeErrorf(indexPath(joinPath(path, key), idx), "expected non-empty name, got %v", item)
		}
		out = append(out, name)
	}
	return out, nil
}

func requireString(node map[string]any, key, path string) (string, error) {
	val, ok := node[key].(string)
	if !ok || strings.TrimSpace(val) == "" {
		return "", decodeErrorf(joinPath(path, key), "expected non-empty string")
	}
	return val, nil
}

func decodeInt32(raw any, path string) (int32, error) {
	var v int64
	switch n := raw.(type) {
	case int:
		v = int64(n)
	case int64:
		v = n
	case uint64:
		if n > math.MaxInt32 {
			return 0, decodeErrorf(path, "integer %d out of 32-bit range", n)
		}
		v = int64(n)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, decodeErrorf(path, "expected integer, got %v", n)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, decodeErrorf(path, "integer %v out of 32-bit range", n)
		}
		v = int64(n)
	case json.Number:
		parsed, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return 0, decodeErrorf(path, "expected integer, got %q", n.String())
		}
		v = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, decodeErrorf(path, "expected integer, got %q", n)
		}
		v = parsed
	case nil:
		return 0, decodeErrorf(path, "missing integer value")
	default:
		return 0, decodeErrorf(path, "expected integer, got %T", raw)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, decodeErrorf(path, "integer %d out of 32-bit range", v)
	}
	return int32(v), nil
}

// asObject accepts both map shapes produced by the JSON and YAML decoders.
func asObject(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = v
		}
		return out, true
	default:
		return nil, false
	}
}
