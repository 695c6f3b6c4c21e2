// Package loopcall detects whole-population scans inside loops.
package loopcall

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer detects calls that enumerate every creature or every skin file
// made inside a loop.
var Analyzer = &analysis.Analyzer{
	Name:     "loopcall",
	Doc:      "detects whole-population scans inside loops that should be hoisted",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// scanMethods are method names that walk the whole world or skins folder.
var scanMethods = map[string]bool{
	// World
	"ListCreatures": true,
	// IdentityRegistry: each call lists every creature
	"Resolve":  true,
	"Allocate": true,
	// SkinAssetCatalog
	"LoadAll": true,
	// AssetSource
	"Enumerate": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			// Nested loops are visited by Preorder on their own.
			switch n.(type) {
			case *ast.RangeStmt, *ast.ForStmt, *ast.FuncLit:
				return false
			}

			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			if name := sel.Sel.Name; scanMethods[name] {
				pass.Reportf(call.Pos(),
					"full scan: %s called inside loop - hoist it out",
					name)
			}
			return true
		})
	})

	return nil, nil
}
