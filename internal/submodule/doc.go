// Package submodule reconciles the submodules declared in a project's
// submodules file (normally .gitmodules) with what exists on disk.
//
// The package is layered leaves first:
//   - Resolver maps declared relative paths onto the project root
//   - ParseDeclaredPaths and Inventory turn the submodules file into
//     SubmoduleEntry values with an existence flag
//   - Reconciler materializes missing entries through git and deletes
//     declared directories on request
//
// Every operation is sequential. Git submodule commands contend on the
// same repository lock files, so the sweep never runs entries in
// parallel.
package submodule
