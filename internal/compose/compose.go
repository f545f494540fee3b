// Package compose loads and saves the project's docker-compose file.
//
// The file is named by the docker_compose key of the project config and
// resolved against project_path, so a relative name always refers to the
// project root regardless of the current working directory.
package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/polyrepo/internal/model"
	"github.com/shinji-kodama/polyrepo/internal/submodule"
)

// Path returns the absolute path of the compose file for cfg.
func Path(cfg *model.ProjectConfig) string {
	return submodule.NewResolver(cfg.ProjectPath).Resolve(cfg.DockerCompose)
}

// Load reads and decodes the compose file for cfg.
//
// A missing file is reported as a CLIError with ExitGeneralError so the
// message names the expected location.
func Load(cfg *model.ProjectConfig) (*model.DockerCompose, error) {
	path := Path(cfg)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitGeneralError,
				fmt.Sprintf("compose file not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read compose file %s: %w", path, err)
	}

	dc, err := model.ParseDockerCompose(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse compose file %s: %w", path, err)
	}
	return dc, nil
}

// Save encodes dc and writes it to the compose file for cfg, creating
// parent directories as needed.
func Save(cfg *model.ProjectConfig, dc *model.DockerCompose) error {
	data, err := dc.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode compose file: %w", err)
	}

	path := Path(cfg)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write compose file %s: %w", path, err)
	}
	return nil
}
