package submodule

import (
	"path/filepath"
	"strings"
)

// Resolver resolves paths against a project root.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver for the given project root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Root returns the project root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns path unchanged if it is absolute, otherwise path
// joined onto the project root. The result is cleaned, which is
// filesystem-equivalent to plain concatenation.
func (r *Resolver) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.root, path)
}

// Within reports whether path is strictly inside the project root.
// The root itself and anything reached through ".." are outside.
func (r *Resolver) Within(path string) bool {
	rel, err := filepath.Rel(filepath.Clean(r.root), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
