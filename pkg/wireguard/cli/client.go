// Package cli invokes the external wg binary.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const name = "wg_cli"

// CommandError indicates that the wg binary could not be invoked or exited
// non-zero. It carries the captured stderr for diagnostics.
type CommandError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", e.Path, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

type Client struct {
	path    string
	timeout time.Duration
	log     *zap.Logger
}

// New creates a client for the wg binary at the given path.
// Every invocation is bounded by the given timeout so a hung binary cannot
// hang a scrape.
func New(path string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		path:    path,
		timeout: timeout,
		log:     log.Named(name).With(zap.String("wg_path", path)),
	}
}

// Dump returns the raw output of `wg show all dump`.
func (c *Client) Dump(ctx context.Context) (string, error) {
	return c.run(ctx, "show", "all", "dump")
}

// Version returns the output of `wg --version`. Used as a readiness probe.
func (c *Client) Version(ctx context.Context) (string, error) {
	return c.run(ctx, "--version")
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Path:   c.path,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	c.log.Debug("Command finished",
		zap.Strings("args", args),
		zap.Duration("duration", time.Since(start)),
	)

	return stdout.String(), nil
}
