package model

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Project is a hierarchical project descriptor. A parent project lists
// its services as nested Projects; a service may point back to its
// parent.
type Project struct {
	// Name is required and names the repository.
	Name string `yaml:"name"`

	// Domain is required; it may be appended to the project name.
	Domain string `yaml:"domain"`

	// Version is a required semantic version string.
	Version string `yaml:"version"`

	// Description is required and doubles as the repository description.
	Description string `yaml:"description"`

	Languages    []string            `yaml:"languages,omitempty"`
	Frameworks   []string            `yaml:"frameworks,omitempty"`
	Services     []Project           `yaml:"services,omitempty"`
	Repo         []ProjectRepository `yaml:"repo,omitempty"`
	Parent       *Project            `yaml:"parent,omitempty"`
	FromTemplate *bool               `yaml:"from_template,omitempty"`
	Template     string              `yaml:"template,omitempty"`
}

// ProjectRepository describes the repository backing a project.
type ProjectRepository struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Provider     string `yaml:"provider,omitempty"`
	IsPrivate    *bool  `yaml:"is_private,omitempty"`
	WebURL       string `yaml:"web_url,omitempty"`
	GitURL       string `yaml:"git_url,omitempty"`
	FromTemplate *bool  `yaml:"from_template,omitempty"`
	IsTemplate   string `yaml:"is_template,omitempty"`
}

// ParseProject decodes and validates a project descriptor.
func ParseProject(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project document: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks required fields recursively through services and
// repositories. Parents are not descended into to avoid cycles.
func (p *Project) Validate() error {
	return p.validate("project")
}

func (p *Project) validate(where string) error {
	if p.Name != "" {
		where = fmt.Sprintf("%s %q", where, p.Name)
	}
	required := [][2]string{
		{"name", p.Name},
		{"domain", p.Domain},
		{"version", p.Version},
		{"description", p.Description},
	}
	for _, r := range required {
		if r[1] == "" {
			return fmt.Errorf("%s: missing field %q", where, r[0])
		}
	}
	for i := range p.Repo {
		if p.Repo[i].Name == "" || p.Repo[i].Description == "" {
			return fmt.Errorf("%s: repo %d: name and description are required", where, i)
		}
	}
	for i := range p.Services {
		if err := p.Services[i].validate("service"); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
	}
	return nil
}

// Marshal encodes the descriptor prefixed with the "---" marker.
func (p *Project) Marshal() ([]byte, error) {
	return marshalDocument(p)
}

// SemVer parses Version.
func (p *Project) SemVer() (*semver.Version, error) {
	return ParseVersion(p.Version)
}

// SetVersion replaces Version.
func (p *Project) SetVersion(v *semver.Version) {
	p.Version = v.String()
}

// SetMajor sets the major component of Version.
func (p *Project) SetMajor(major uint64) error { return applyVersion(p, setMajor(major)) }

// SetMinor sets the minor component of Version.
func (p *Project) SetMinor(minor uint64) error { return applyVersion(p, setMinor(minor)) }

// SetPatch sets the patch component of Version.
func (p *Project) SetPatch(patch uint64) error { return applyVersion(p, setPatch(patch)) }

// SetPrerelease sets the prerelease identifier of Version.
func (p *Project) SetPrerelease(pre string) error { return applyVersion(p, setPrerelease(pre)) }

// SetBuild sets the build metadata of Version.
func (p *Project) SetBuild(build string) error { return applyVersion(p, setBuild(build)) }

func (p *Project) versionField() *string { return &p.Version }
