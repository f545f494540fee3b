package submodule

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shinji-kodama/polyrepo/internal/model"
)

// pathDeclaration is the literal that marks a submodule path line.
//
// Example .gitmodules:
//
//	[submodule "backend"]
//		path = backend
//		url = git@github.com:example/backend
const pathDeclaration = "path = "

// ParseDeclaredPaths scans r and returns the value of every line that
// contains "path = ", in file order.
//
// The value is everything after the first occurrence of the marker with
// surrounding whitespace trimmed. There is no quoting, escaping or
// continuation-line support. Duplicate paths are returned as-is.
func ParseDeclaredPaths(r io.Reader) ([]string, error) {
	var paths []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		_, value, found := strings.Cut(scanner.Text(), pathDeclaration)
		if !found {
			continue
		}
		paths = append(paths, strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return paths, nil
}

// Inventory lists the submodules declared for a project.
type Inventory struct {
	resolver *Resolver
	file     string
}

// NewInventory creates an Inventory reading submodulesFile (relative to
// the resolver root unless absolute).
func NewInventory(resolver *Resolver, submodulesFile string) *Inventory {
	return &Inventory{resolver: resolver, file: submodulesFile}
}

// NewInventoryFromConfig builds the resolver and inventory for cfg.
func NewInventoryFromConfig(cfg *model.ProjectConfig) *Inventory {
	return NewInventory(NewResolver(cfg.ProjectPath), cfg.Gitmodules)
}

// Resolver returns the path resolver used by the inventory.
func (inv *Inventory) Resolver() *Resolver {
	return inv.resolver
}

// Path returns the absolute path of the submodules file.
func (inv *Inventory) Path() string {
	return inv.resolver.Resolve(inv.file)
}

// List reads the submodules file and returns one entry per declared
// path, probing the filesystem for each.
//
// An unreadable file is an error wrapping model.ErrSubmodulesFileMissing.
// It is never turned into an empty list, which would read as "fully
// initialized".
func (inv *Inventory) List() ([]model.SubmoduleEntry, error) {
	path := inv.Path()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrSubmodulesFileMissing, path, err)
	}

	declared, err := ParseDeclaredPaths(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrSubmodulesFileMissing, path, err)
	}

	entries := make([]model.SubmoduleEntry, 0, len(declared))
	for _, d := range declared {
		abs := inv.resolver.Resolve(d)
		entries = append(entries, model.SubmoduleEntry{
			DeclaredPath: d,
			AbsolutePath: abs,
			Exists:       exists(abs),
		})
	}
	return entries, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
