package model

import (
	"bytes"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Defaults applied when a project configuration is created from scratch.
const (
	DefaultDockerComposeFilename = "docker-compose.yaml"
	DefaultSubmodulesFilename    = ".gitmodules"
	DefaultProjectName           = "project"
)

// documentMarker prefixes every YAML document this tool writes.
const documentMarker = "---\n"

// ProjectConfig is the persisted project configuration (config.yaml).
//
// The YAML key names are part of the on-disk format and must not change.
type ProjectConfig struct {
	// ProjectPath is the absolute path treated as the project root.
	// It is expected to equal the working directory at load time.
	ProjectPath string `yaml:"project_path"`

	// DockerCompose is the compose document filename, relative to ProjectPath.
	DockerCompose string `yaml:"docker_compose"`

	// Gitmodules is the submodules declaration filename, relative to ProjectPath.
	Gitmodules string `yaml:"gitmodules"`

	// ProjectName identifies the project.
	ProjectName string `yaml:"project_name"`

	// ProjectVersion is a semantic version string.
	ProjectVersion string `yaml:"project_version"`

	// GitHubAPIToken is an optional secret. A nil pointer is written
	// as an explicit null.
	GitHubAPIToken *string `yaml:"github_api_token"`
}

// DefaultProjectConfig returns the configuration created on first run
// for a project rooted at root.
func DefaultProjectConfig(root string) *ProjectConfig {
	return &ProjectConfig{
		ProjectPath:    root,
		DockerCompose:  DefaultDockerComposeFilename,
		Gitmodules:     DefaultSubmodulesFilename,
		ProjectName:    DefaultProjectName,
		ProjectVersion: DefaultProjectVersion,
	}
}

// ParseProjectConfig decodes a YAML document into a ProjectConfig.
// Every field except the token is required; a document missing one of
// them is reported as ErrConfigCorrupt.
func ParseProjectConfig(data []byte) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigCorrupt, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first required field that is empty.
func (c *ProjectConfig) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"project_path", c.ProjectPath},
		{"docker_compose", c.DockerCompose},
		{"gitmodules", c.Gitmodules},
		{"project_name", c.ProjectName},
		{"project_version", c.ProjectVersion},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: missing field %q", ErrConfigCorrupt, r.key)
		}
	}
	return nil
}

// Marshal encodes the configuration as a YAML document prefixed with
// the "---" document marker.
func (c *ProjectConfig) Marshal() ([]byte, error) {
	return marshalDocument(c)
}

// Version parses ProjectVersion.
func (c *ProjectConfig) Version() (*semver.Version, error) {
	return ParseVersion(c.ProjectVersion)
}

// SetVersion replaces ProjectVersion.
func (c *ProjectConfig) SetVersion(v *semver.Version) {
	c.ProjectVersion = v.String()
}

// SetMajor sets the major component of ProjectVersion.
func (c *ProjectConfig) SetMajor(major uint64) error { return applyVersion(c, setMajor(major)) }

// SetMinor sets the minor component of ProjectVersion.
func (c *ProjectConfig) SetMinor(minor uint64) error { return applyVersion(c, setMinor(minor)) }

// SetPatch sets the patch component of ProjectVersion.
func (c *ProjectConfig) SetPatch(patch uint64) error { return applyVersion(c, setPatch(patch)) }

// SetPrerelease sets the prerelease identifier of ProjectVersion.
func (c *ProjectConfig) SetPrerelease(pre string) error {
	return applyVersion(c, setPrerelease(pre))
}

// SetBuild sets the build metadata of ProjectVersion.
func (c *ProjectConfig) SetBuild(build string) error { return applyVersion(c, setBuild(build)) }

func (c *ProjectConfig) versionField() *string { return &c.ProjectVersion }

// marshalDocument serializes v with yaml.v3 using two-space indentation
// and prepends the document marker.
func marshalDocument(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(documentMarker)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to serialize YAML document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize YAML document: %w", err)
	}
	return buf.Bytes(), nil
}
