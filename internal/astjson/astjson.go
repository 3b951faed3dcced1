// Package astjson projects a parsed program onto a JSON document for
// the alien-ast-dump diagnostic tool. It is independent of
// compilation or execution — a pure tree-to-document transform built
// on the standard library's encoding/json, since no JSON library
// appears in any example repo's own dependency set.
package astjson

import (
	"encoding/json"

	"alien-vm/internal/ast"
)

// Marshal renders program as {"Program": [<stmt>, ...]}, indented for
// human reading.
func Marshal(program *ast.Program) ([]byte, error) {
	doc := map[string]interface{}{
		"Program": stmtList(program.Statements),
	}
	return json.MarshalIndent(doc, "", "  ")
}

func stmtList(stmts []ast.Stmt) []interface{} {
	out := make([]interface{}, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, stmtNode(s))
	}
	return out
}

func exprNode(e ast.Expr) interface{} {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Assign:
		return map[string]interface{}{
			"Kind":   "Assign",
			"Target": exprNode(n.Target),
			"Value":  exprNode(n.Value),
		}
	case *ast.Binary:
		return map[string]interface{}{
			"Kind":  "Binary",
			"Left":  exprNode(n.Left),
			"Op":    string(n.Op),
			"Right": exprNode(n.Right),
		}
	case *ast.Logical:
		return map[string]interface{}{
			"Kind":  "Logical",
			"Left":  exprNode(n.Left),
			"Op":    string(n.Op),
			"Right": exprNode(n.Right),
		}
	case *ast.Unary:
		return map[string]interface{}{
			"Kind":  "Unary",
			"Op":    string(n.Op),
			"Right": exprNode(n.Right),
		}
	case *ast.Call:
		args := make([]interface{}, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, exprNode(a))
		}
		return map[string]interface{}{
			"Kind":   "Call",
			"Callee": exprNode(n.Callee),
			"Args":   args,
		}
	case *ast.Get:
		return map[string]interface{}{
			"Kind":   "Get",
			"Object": exprNode(n.Object),
			"Name":   n.Name,
		}
	case *ast.Grouping:
		return map[string]interface{}{
			"Kind":  "Grouping",
			"Inner": exprNode(n.Inner),
		}
	case *ast.Variable:
		return map[string]interface{}{
			"Kind": "Variable",
			"Name": n.Name,
		}
	case *ast.This:
		return map[string]interface{}{"Kind": "This"}
	case *ast.Number:
		return map[string]interface{}{
			"Kind":  "Number",
			"Value": n.Value,
		}
	case *ast.String:
		return map[string]interface{}{
			"Kind":  "String",
			"Value": n.Value,
		}
	case *ast.Literal:
		kind := "nil"
		switch n.Kind {
		case ast.LiteralTrue:
			kind = "true"
		case ast.LiteralFalse:
			kind = "false"
		}
		return map[string]interface{}{
			"Kind":  "Literal",
			"Value": kind,
		}
	default:
		return map[string]interface{}{"Kind": "Unknown"}
	}
}

func stmtNode(s ast.Stmt) interface{} {
	switch n := s.(type) {
	case *ast.VarStmt:
		return map[string]interface{}{
			"Kind":  "Var",
			"Name":  n.Name,
			"Value": exprNode(n.Value),
		}
	case *ast.FuncStmt:
		return map[string]interface{}{
			"Kind":   "Func",
			"Name":   n.Name,
			"Params": n.Params,
			"Body":   stmtList(n.Body),
		}
	case *ast.ClassStmt:
		methods := make([]interface{}, 0, len(n.Methods))
		for _, m := range n.Methods {
			methods = append(methods, stmtNode(m))
		}
		return map[string]interface{}{
			"Kind":    "Class",
			"Name":    n.Name,
			"Methods": methods,
		}
	case *ast.ConstStmt:
		return map[string]interface{}{
			"Kind":  "Const",
			"Name":  n.Name,
			"Value": exprNode(n.Value),
		}
	case *ast.BlockStmt:
		return map[string]interface{}{
			"Kind":       "Block",
			"Statements": stmtList(n.Statements),
		}
	case *ast.IfStmt:
		return map[string]interface{}{
			"Kind":      "If",
			"Condition": exprNode(n.Condition),
			"Then":      stmtNode(n.Then),
			"Else":      stmtNodeOrNil(n.Else),
		}
	case *ast.WhileStmt:
		return map[string]interface{}{
			"Kind":      "While",
			"Condition": exprNode(n.Condition),
			"Body":      stmtNode(n.Body),
		}
	case *ast.ForStmt:
		return map[string]interface{}{
			"Kind":      "For",
			"Init":      stmtNodeOrNil(n.Init),
			"Condition": exprNode(n.Condition),
			"Update":    exprNode(n.Update),
			"Body":      stmtNode(n.Body),
		}
	case *ast.PrintStmt:
		return map[string]interface{}{
			"Kind":  "Print",
			"Value": exprNode(n.Value),
		}
	case *ast.ReturnStmt:
		return map[string]interface{}{
			"Kind":  "Return",
			"Value": exprNode(n.Value),
		}
	case *ast.ExprStmt:
		return map[string]interface{}{
			"Kind":       "Exprstmt",
			"Expression": exprNode(n.Expression),
		}
	default:
		return map[string]interface{}{"Kind": "Unknown"}
	}
}

func stmtNodeOrNil(s ast.Stmt) interface{} {
	if s == nil {
		return nil
	}
	return stmtNode(s)
}
