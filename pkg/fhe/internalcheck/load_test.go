package internalcheck

import (
	"testing"

	"golang.org/x/tools/go/packages"
)

const fhePackages = "github.com/coinbase/cb-fhe-go/pkg/fhe/..."

func load(t *testing.T, mode packages.LoadMode, patterns ...string) []*packages.Package {
	t.Helper()
	pkgs, err := packages.Load(&packages.Config{Mode: mode}, patterns...)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatal("packages failed to load")
	}
	return pkgs
}
