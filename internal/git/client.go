// Package git runs the git operations polyrepo needs by invoking the git
// CLI.
//
// Git runs as a subprocess with the project root as its working
// directory. Output is captured only to enrich error messages. Every
// failure wraps model.ErrSubmoduleUpdateFailed.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/polyrepo/internal/model"
)

// DefaultBinary is the git executable looked up on PATH.
const DefaultBinary = "git"

// Client invokes the git CLI.
type Client struct {
	// Binary is the git executable name or path.
	Binary string

	// Env holds extra environment entries ("KEY=value") appended to the
	// process environment for every invocation.
	Env []string
}

// NewClient creates a Client that runs the git found on PATH.
func NewClient() *Client {
	return &Client{Binary: DefaultBinary}
}

// submoduleUpdateArgs is the materialize-everything invocation.
var submoduleUpdateArgs = []string{"submodule", "update", "--init", "--recursive"}

// SubmoduleUpdate runs `git submodule update --init --recursive` with
// projectRoot as the working directory.
//
// The command is repository-wide: it materializes every registered
// submodule, not only one path. A spawn failure and a non-zero exit are
// both reported as an error wrapping model.ErrSubmoduleUpdateFailed.
func (c *Client) SubmoduleUpdate(ctx context.Context, projectRoot string) error {
	_, err := c.run(ctx, projectRoot, submoduleUpdateArgs...)
	return err
}

// run executes git with args in dir and returns stdout on success.
//
// Stdout and stderr are captured separately so stderr can be included
// in the error message while stdout is returned on success.
func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	binary := c.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	// #nosec G204 -- args are constructed internally
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := fmt.Sprintf("git %s failed in %s", strings.Join(args, " "), dir)
		if stderrStr := strings.TrimSpace(stderr.String()); stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", fmt.Errorf("%w: %s: %v", model.ErrSubmoduleUpdateFailed, message, err)
	}

	return stdout.String(), nil
}
