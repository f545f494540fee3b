package model

import (
	"fmt"
	"strings"
)

// ProjectState represents how far the declared submodules of a project
// have been materialized on disk. The state transitions are:
//
//	Uninitialized → (init) → Initialized
//	Uninitialized → (init, an update failed) → PartiallyInitialized
//	PartiallyInitialized/Initialized → (clean) → Uninitialized
//	PartiallyInitialized/Initialized → (rebuild) → Initialized
type ProjectState string

const (
	// StateUninitialized indicates none of the declared submodule
	// directories exist.
	StateUninitialized ProjectState = "uninitialized"

	// StatePartiallyInitialized indicates some, but not all, declared
	// submodule directories exist.
	StatePartiallyInitialized ProjectState = "partially-initialized"

	// StateInitialized indicates every declared submodule directory exists.
	// A project that declares no submodules is trivially initialized.
	StateInitialized ProjectState = "initialized"
)

// String returns the string representation of ProjectState.
func (s ProjectState) String() string {
	return string(s)
}

// IsValid checks whether the ProjectState value is one of the
// predefined valid states.
func (s ProjectState) IsValid() bool {
	switch s {
	case StateUninitialized, StatePartiallyInitialized, StateInitialized:
		return true
	default:
		return false
	}
}

// ParseProjectState converts a string to a ProjectState.
// Returns an error if the string does not match any valid state.
func ParseProjectState(s string) (ProjectState, error) {
	state := ProjectState(strings.ToLower(s))
	if !state.IsValid() {
		return "", fmt.Errorf("invalid project state: %q (valid: uninitialized, partially-initialized, initialized)", s)
	}
	return state, nil
}

// SubmoduleEntry describes one submodule declared in the submodules file.
//
// Entries are computed fresh on every init/rebuild/clean invocation and
// are never cached or persisted.
type SubmoduleEntry struct {
	// DeclaredPath is the relative path exactly as written in the
	// submodules file (after whitespace trimming).
	DeclaredPath string `json:"declaredPath"`

	// AbsolutePath is DeclaredPath resolved against the project root.
	AbsolutePath string `json:"absolutePath"`

	// Exists reports whether AbsolutePath existed when the entry was built.
	Exists bool `json:"exists"`
}

// String returns the "absolute - declared - exists" line printed by init.
func (e SubmoduleEntry) String() string {
	return fmt.Sprintf("%s - %s - %t", e.AbsolutePath, e.DeclaredPath, e.Exists)
}

// StateOf derives the ProjectState from a set of entries.
func StateOf(entries []SubmoduleEntry) ProjectState {
	present := 0
	for _, e := range entries {
		if e.Exists {
			present++
		}
	}

	switch {
	case present == len(entries):
		return StateInitialized
	case present == 0:
		return StateUninitialized
	default:
		return StatePartiallyInitialized
	}
}

// MissingEntries returns the subset of entries whose directory is absent,
// preserving declaration order.
func MissingEntries(entries []SubmoduleEntry) []SubmoduleEntry {
	var missing []SubmoduleEntry
	for _, e := range entries {
		if !e.Exists {
			missing = append(missing, e)
		}
	}
	return missing
}
