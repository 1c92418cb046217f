package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *FuncDecl:
		return map[string]interface{}{
			"type":  "FuncDecl",
			"pos":   n.pos.String(),
			"proto": toJSON(n.Proto),
			"body":  toJSON(n.Body),
		}

	case *Prototype:
		m := map[string]interface{}{
			"type":   "Prototype",
			"pos":    n.pos.String(),
			"kind":   n.Kind.String(),
			"name":   n.Name,
			"params": n.ParamNames(),
		}
		if n.IsOperator() {
			m["op"] = string(n.Op)
		}
		if n.Kind == BinaryProto {
			m["prec"] = n.Prec
		}
		return m

	case *NumberLit:
		return map[string]interface{}{
			"type":  "NumberLit",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *Name:
		return map[string]interface{}{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *Operation:
		if n.Y == nil {
			return map[string]interface{}{
				"type": "UnaryOp",
				"pos":  n.pos.String(),
				"op":   string(n.Op),
				"x":    toJSON(n.X),
			}
		}
		return map[string]interface{}{
			"type": "BinaryOp",
			"pos":  n.pos.String(),
			"op":   string(n.Op),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *CallExpr:
		return map[string]interface{}{
			"type":   "CallExpr",
			"pos":    n.pos.String(),
			"callee": n.Callee,
			"args":   mapSlice(n.Args, exprJSON),
		}

	case *IfExpr:
		return map[string]interface{}{
			"type": "IfExpr",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
			"else": toJSON(n.Else),
		}

	case *ForExpr:
		m := map[string]interface{}{
			"type":  "ForExpr",
			"pos":   n.pos.String(),
			"var":   n.Var.Value,
			"start": toJSON(n.Start),
			"end":   toJSON(n.End),
			"body":  toJSON(n.Body),
		}
		if n.Step != nil {
			m["step"] = toJSON(n.Step)
		}
		return m

	case *VarExpr:
		return map[string]interface{}{
			"type":     "VarExpr",
			"pos":      n.pos.String(),
			"bindings": mapSlice(n.Bindings, func(b *Binding) interface{} { return toJSON(b) }),
			"body":     toJSON(n.Body),
		}

	case *Binding:
		m := map[string]interface{}{
			"type": "Binding",
			"pos":  n.pos.String(),
			"name": n.Name.Value,
		}
		if n.Init != nil {
			m["init"] = toJSON(n.Init)
		}
		return m

	default:
		return map[string]interface{}{
			"type": "Unknown",
		}
	}
}

func exprJSON(x Expr) interface{} { return toJSON(x) }

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
