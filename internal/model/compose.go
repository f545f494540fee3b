package model

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// DockerCompose mirrors the subset of the docker-compose schema that the
// project tooling reads and writes.
type DockerCompose struct {
	Services map[string]ComposeService `yaml:"services"`
	Volumes  map[string]ComposeVolume  `yaml:"volumes,omitempty"`
	Networks map[string]ComposeNetwork `yaml:"networks,omitempty"`
	Configs  map[string]ComposeConfig  `yaml:"configs,omitempty"`
	Secrets  map[string]ComposeSecret  `yaml:"secrets,omitempty"`
}

// ComposeBuild is the "build" section of a service.
type ComposeBuild struct {
	Context    string `yaml:"context"`
	Dockerfile string `yaml:"dockerfile"`
}

// ComposeService is a single entry under "services". Every field is
// optional.
type ComposeService struct {
	Build     *ComposeBuild `yaml:"build,omitempty"`
	Image     string        `yaml:"image,omitempty"`
	Ports     []string      `yaml:"ports,omitempty"`
	Networks  []string      `yaml:"networks,omitempty"`
	Configs   []string      `yaml:"configs,omitempty"`
	Secrets   []string      `yaml:"secrets,omitempty"`
	Volumes   []string      `yaml:"volumes,omitempty"`
	DependsOn []string      `yaml:"depends_on,omitempty"`
}

// ComposeVolume is a named volume definition.
type ComposeVolume struct {
	Driver     string            `yaml:"driver,omitempty"`
	DriverOpts map[string]string `yaml:"driver_opts,omitempty"`
}

// ComposeNetwork is a named network definition.
type ComposeNetwork struct {
	Driver string `yaml:"driver,omitempty"`
}

// ComposeConfig is a named config definition.
type ComposeConfig struct {
	External bool `yaml:"external"`
}

// ComposeSecret is a named secret definition.
type ComposeSecret struct {
	External bool `yaml:"external"`
}

// ParseDockerCompose decodes a compose document. A document without a
// "services" section is rejected.
func ParseDockerCompose(data []byte) (*DockerCompose, error) {
	var dc DockerCompose
	if err := yaml.Unmarshal(data, &dc); err != nil {
		return nil, fmt.Errorf("failed to parse docker compose document: %w", err)
	}
	if dc.Services == nil {
		return nil, fmt.Errorf("failed to parse docker compose document: missing field %q", "services")
	}
	return &dc, nil
}

// Marshal encodes the document prefixed with the "---" marker.
// yaml.v3 sorts map keys, so the output is deterministic.
func (dc *DockerCompose) Marshal() ([]byte, error) {
	return marshalDocument(dc)
}

// ServiceNames returns the service names in sorted order.
func (dc *DockerCompose) ServiceNames() []string {
	names := make([]string, 0, len(dc.Services))
	for name := range dc.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
