// Package config loads and persists the project configuration file and
// resolves the runtime options of the CLI.
//
// The project configuration (config.yaml) is read once at process entry
// and passed explicitly to every component that needs it. Nothing in this
// package holds process-wide state.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/polyrepo/internal/model"
)

// DefaultFileName is the config filename looked up in the working directory.
const DefaultFileName = "config.yaml"

// currentDirMarker is the stored project_path that means "wherever the
// tool runs". It is expanded in memory on load.
const currentDirMarker = "."

// Store reads and writes the project configuration of one directory.
type Store struct {
	// Dir is the directory holding the config file, normally the
	// process working directory.
	Dir string

	// FileName is the config filename relative to Dir.
	FileName string

	// Logger receives the project path mismatch warning.
	Logger *slog.Logger
}

// NewStore creates a Store for dir. An empty fileName selects
// DefaultFileName; a nil logger discards output.
func NewStore(dir, fileName string, logger *slog.Logger) *Store {
	if fileName == "" {
		fileName = DefaultFileName
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{Dir: dir, FileName: fileName, Logger: logger}
}

// Path returns the absolute config file path.
func (s *Store) Path() string {
	if filepath.IsAbs(s.FileName) {
		return s.FileName
	}
	return filepath.Join(s.Dir, s.FileName)
}

// Load returns the configuration for the store's directory.
//
// If the file does not exist, a default configuration rooted at Dir is
// written and returned. If it exists but cannot be read or decoded, the
// returned error wraps model.ErrConfigCorrupt.
//
// A stored project_path that differs from Dir produces a warning only.
// The value is left as-is; the user has to re-run init from the right
// directory or fix the file.
func (s *Store) Load() (*model.ProjectConfig, error) {
	path := s.Path()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := model.DefaultProjectConfig(s.Dir)
		if err := s.Save(cfg); err != nil {
			return nil, err
		}
		s.Logger.Info("created default project config", "path", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", model.ErrConfigCorrupt, path, err)
	}

	cfg, err := model.ParseProjectConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if cfg.ProjectPath == currentDirMarker {
		cfg.ProjectPath = s.Dir
	}

	if !samePath(cfg.ProjectPath, s.Dir) {
		s.Logger.Warn("project_path in config does not match the working directory; results may be unreliable",
			"project_path", cfg.ProjectPath,
			"working_dir", s.Dir,
			"config", path,
		)
	}

	return cfg, nil
}

// Save serializes cfg with a leading document marker and overwrites the
// config file. Failures wrap model.ErrConfigWrite.
func (s *Store) Save(cfg *model.ProjectConfig) error {
	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrConfigWrite, err)
	}

	// 0600: the file may carry an API token.
	if err := os.WriteFile(s.Path(), data, 0600); err != nil {
		return fmt.Errorf("%w: %v", model.ErrConfigWrite, err)
	}
	return nil
}

// samePath compares two directory paths after cleaning. Symlinks are
// resolved when possible so a temp dir reached through /var and
// /private/var on macOS still matches.
func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}
