// Package model defines the domain types and value objects for the
// polyrepo CLI.
//
// This package contains pure data structures: the persisted project
// configuration (ProjectConfig), the transient submodule entries computed
// on every invocation (SubmoduleEntry), and the YAML mirrors of
// docker-compose documents (DockerCompose) and hierarchical project
// descriptors (Project).
//
// The package also defines exit codes (ExitCode), the sentinel errors of
// the error taxonomy, and a custom error type (CLIError) that carries exit
// codes for proper OS process exit handling.
package model
