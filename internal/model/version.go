package model

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// DefaultProjectVersion is the version written into a freshly created
// project configuration.
var DefaultProjectVersion = semver.New(0, 1, 0, "alpha", "").String()

// ParseVersion parses a strict semantic version string (no "v" prefix,
// all three numeric components present).
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidVersion, s, err)
	}
	return v, nil
}

// versionMutation rewrites one component of a version. Components that
// are not touched are carried over unchanged, so setting the major
// component does not reset minor and patch.
type versionMutation func(v *semver.Version) (*semver.Version, error)

func setMajor(major uint64) versionMutation {
	return func(v *semver.Version) (*semver.Version, error) {
		return semver.New(major, v.Minor(), v.Patch(), v.Prerelease(), v.Metadata()), nil
	}
}

func setMinor(minor uint64) versionMutation {
	return func(v *semver.Version) (*semver.Version, error) {
		return semver.New(v.Major(), minor, v.Patch(), v.Prerelease(), v.Metadata()), nil
	}
}

func setPatch(patch uint64) versionMutation {
	return func(v *semver.Version) (*semver.Version, error) {
		return semver.New(v.Major(), v.Minor(), patch, v.Prerelease(), v.Metadata()), nil
	}
}

func setPrerelease(pre string) versionMutation {
	return func(v *semver.Version) (*semver.Version, error) {
		next, err := v.SetPrerelease(pre)
		if err != nil {
			return nil, fmt.Errorf("%w: prerelease %q: %v", ErrInvalidVersion, pre, err)
		}
		return &next, nil
	}
}

func setBuild(build string) versionMutation {
	return func(v *semver.Version) (*semver.Version, error) {
		next, err := v.SetMetadata(build)
		if err != nil {
			return nil, fmt.Errorf("%w: build metadata %q: %v", ErrInvalidVersion, build, err)
		}
		return &next, nil
	}
}

// mutateVersion parses current, applies m, and returns the new string.
// On error the caller keeps its old value.
func mutateVersion(current string, m versionMutation) (string, error) {
	v, err := ParseVersion(current)
	if err != nil {
		return "", err
	}
	next, err := m(v)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}

// versioned is implemented by every model that carries a semantic
// version string field.
type versioned interface {
	versionField() *string
}

func applyVersion(target versioned, m versionMutation) error {
	field := target.versionField()
	next, err := mutateVersion(*field, m)
	if err != nil {
		return err
	}
	*field = next
	return nil
}
