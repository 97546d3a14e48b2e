package internalcheck

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// Every exported flat operation returning a Status must install the panic
// guard before doing anything else.
func TestFlatOpsInstallGuardFirst(t *testing.T) {
	pkgs := load(t, packages.NeedSyntax|packages.NeedFiles|packages.NeedName, "github.com/coinbase/cb-fhe-go/pkg/fhe/abi")

	var findings []string
	checked := 0
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || fn.Recv != nil || !fn.Name.IsExported() || fn.Body == nil || !returnsStatus(fn) {
					continue
				}
				checked++
				if !guardFirst(fn.Body) {
					findings = append(findings, fmt.Sprintf("%s: %s must start with defer guard(...)", pkg.Fset.Position(fn.Pos()), fn.Name.Name))
				}
			}
		}
	}
	if checked == 0 {
		t.Fatal("no flat operations found")
	}
	if len(findings) > 0 {
		t.Fatalf("boundary policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func returnsStatus(fn *ast.FuncDecl) bool {
	res := fn.Type.Results
	if res == nil || len(res.List) != 1 {
		return false
	}
	id, ok := res.List[0].Type.(*ast.Ident)
	return ok && id.Name == "Status"
}

// guardFirst allows constant declarations ahead of the defer.
func guardFirst(body *ast.BlockStmt) bool {
	for _, stmt := range body.List {
		if d, ok := stmt.(*ast.DeclStmt); ok {
			if g, ok := d.Decl.(*ast.GenDecl); ok && g.Tok == token.CONST {
				continue
			}
		}
		d, ok := stmt.(*ast.DeferStmt)
		if !ok {
			return false
		}
		id, ok := d.Call.Fun.(*ast.Ident)
		return ok && id.Name == "guard"
	}
	return false
}
