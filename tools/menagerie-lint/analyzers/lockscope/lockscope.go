// Package lockscope detects edit locks that are not released on every path.
package lockscope

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports TryLock calls in functions that never defer an Unlock.
var Analyzer = &analysis.Analyzer{
	Name:     "lockscope",
	Doc:      "detects TryLock calls without a deferred Unlock in the same function",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.FuncDecl)(nil),
		(*ast.FuncLit)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch fn := n.(type) {
		case *ast.FuncDecl:
			body = fn.Body
		case *ast.FuncLit:
			body = fn.Body
		}
		if body == nil {
			return
		}

		var locks []*ast.CallExpr
		deferred := false
		ast.Inspect(body, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.FuncLit:
				// Visited on its own; a deferred closure still counts below.
				return false
			case *ast.DeferStmt:
				if releases(node.Call) {
					deferred = true
				}
				return false
			case *ast.CallExpr:
				if methodName(node) == "TryLock" {
					locks = append(locks, node)
				}
			}
			return true
		})

		if deferred {
			return
		}
		for _, call := range locks {
			pass.Reportf(call.Pos(), "TryLock without deferred Unlock - use WithLock")
		}
	})

	return nil, nil
}

// releases reports whether a deferred call unlocks, directly or in a closure.
func releases(call *ast.CallExpr) bool {
	if name := methodName(call); name == "Unlock" || name == "unlock" {
		return true
	}
	lit, ok := call.Fun.(*ast.FuncLit)
	if !ok {
		return false
	}
	found := false
	ast.Inspect(lit.Body, func(n ast.Node) bool {
		if c, ok := n.(*ast.CallExpr); ok {
			if name := methodName(c); name == "Unlock" || name == "unlock" {
				found = true
			}
		}
		return !found
	})
	return found
}

func methodName(call *ast.CallExpr) string {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return ""
	}
	return sel.Sel.Name
}
