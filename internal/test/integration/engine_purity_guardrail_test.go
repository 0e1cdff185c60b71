//go:build integration
// +build integration

package integration

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// Engine packages hold pure game rules. They must stay loadable without
// any service, transport, or storage concern, so a session can be
// rebuilt anywhere a content document is available.
func TestEnginePackagesStayPureOfServices(t *testing.T) {
	forbiddenPrefixes := []string{
		"github.com/puzzlebox-games/puzzlebox/internal/services/",
		"github.com/puzzlebox-games/puzzlebox/internal/platform/storage",
		"github.com/puzzlebox-games/puzzlebox/internal/platform/grpc",
	}

	config := &packages.Config{
		Mode:  packages.NeedName | packages.NeedImports | packages.NeedDeps,
		Tests: false,
		Dir:   integrationRepoRoot(t),
	}
	enginePkgs, err := packages.Load(config, "./internal/puzzle/...")
	if err != nil {
		t.Fatalf("load engine packages: %v", err)
	}
	if packages.PrintErrors(enginePkgs) > 0 {
		t.Fatal("engine package load errors")
	}
	if len(enginePkgs) == 0 {
		t.Fatal("no engine packages found")
	}

	var violations []string
	for _, pkg := range enginePkgs {
		for _, chain := range forbiddenImportChains(pkg, forbiddenPrefixes) {
			violations = append(violations, chain)
		}
	}
	sort.Strings(violations)

	if len(violations) > 0 {
		t.Fatalf("engine packages must not reach service or storage code:\n- %s",
			strings.Join(violations, "\n- "))
	}
}

// The content package decodes documents into engines. It sits one layer
// above them and carries the same restriction.
func TestContentPackageStaysPureOfServices(t *testing.T) {
	forbiddenPrefixes := []string{
		"github.com/puzzlebox-games/puzzlebox/internal/services/",
	}

	config := &packages.Config{
		Mode:  packages.NeedName | packages.NeedImports | packages.NeedDeps,
		Tests: false,
		Dir:   integrationRepoRoot(t),
	}
	contentPkgs, err := packages.Load(config, "./internal/content")
	if err != nil {
		t.Fatalf("load content package: %v", err)
	}
	if packages.PrintErrors(contentPkgs) > 0 {
		t.Fatal("content package load errors")
	}

	var violations []string
	for _, pkg := range contentPkgs {
		for _, chain := range forbiddenImportChains(pkg, forbiddenPrefixes) {
			violations = append(violations, chain)
		}
	}
	sort.Strings(violations)

	if len(violations) > 0 {
		t.Fatalf("content package must not reach service code:\n- %s",
			strings.Join(violations, "\n- "))
	}
}

// forbiddenImportChains walks the import graph below root and reports one
// "root -> offender" line per forbidden package the graph reaches.
func forbiddenImportChains(root *packages.Package, forbiddenPrefixes []string) []string {
	const modulePrefix = "github.com/puzzlebox-games/puzzlebox/"

	seen := map[string]bool{root.PkgPath: true}
	queue := []*packages.Package{root}
	var chains []string

	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]

		for _, imported := range pkg.Imports {
			if seen[imported.PkgPath] {
				continue
			}
			seen[imported.PkgPath] = true

			for _, prefix := range forbiddenPrefixes {
				if strings.HasPrefix(imported.PkgPath, prefix) {
					chains = append(chains, root.PkgPath+" -> "+imported.PkgPath)
				}
			}
			// Only module-internal packages can lead back to module code.
			if strings.HasPrefix(imported.PkgPath, modulePrefix) {
				queue = append(queue, imported)
			}
		}
	}
	return chains
}

func integrationRepoRoot(t *testing.T) string {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("get working dir: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			t.Fatal("go.mod not found")
		}
		wd = parent
	}
}
