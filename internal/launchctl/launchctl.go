// Package launchctl wraps the external control tool that loads and unloads
// service descriptors into the running supervision daemon. Only the exit
// status is inspected.
package launchctl

import (
	"bytes"
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"git.home.luguber.info/inful/launchman/internal/errors"
)

// Client is the control-tool interface the service layer depends on.
type Client interface {
	Load(ctx context.Context, path string) error
	Unload(ctx context.Context, path string) error
}

// Runner executes the control binary and reports its exit status and
// combined output. Injectable so tests never spawn a process.
type Runner func(ctx context.Context, bin string, args ...string) (int, []byte, error)

// Tool drives the launchctl binary.
type Tool struct {
	bin string
	run Runner
}

const fallbackBinary = "/bin/launchctl"

// NewTool resolves the launchctl binary and returns a ready client. Failing
// to resolve the binary is an immediate error; nothing else is checked until
// Load or Unload run.
func NewTool() (*Tool, error) {
	bin, err := resolveBinary()
	if err != nil {
		return nil, err
	}
	return &Tool{bin: bin, run: execRunner}, nil
}

// NewToolWith builds a client around an explicit binary path and runner.
func NewToolWith(bin string, run Runner) *Tool {
	if run == nil {
		run = execRunner
	}
	return &Tool{bin: bin, run: run}
}

func resolveBinary() (string, error) {
	if path, err := exec.LookPath("launchctl"); err == nil {
		return path, nil
	}
	if _, err := os.Stat(fallbackBinary); err == nil {
		return fallbackBinary, nil
	}
	return "", errors.ControlToolMissing(fmt.Errorf("launchctl not in PATH and %s absent", fallbackBinary))
}

func execRunner(ctx context.Context, bin string, args ...string) (int, []byte, error) {
	out, err := exec.CommandContext(ctx, bin, args...).CombinedOutput()
	if err == nil {
		return 0, out, nil
	}
	var exitErr *exec.ExitError
	if goerrors.As(err, &exitErr) {
		return exitErr.ExitCode(), out, nil
	}
	return -1, out, err
}

// Load loads the descriptor at path into the daemon.
func (t *Tool) Load(ctx context.Context, path string) error {
	return t.invoke(ctx, "load", path)
}

// Unload removes the descriptor at path from the daemon.
func (t *Tool) Unload(ctx context.Context, path string) error {
	return t.invoke(ctx, "unload", path)
}

func (t *Tool) invoke(ctx context.Context, op, path string) error {
	code, out, err := t.run(ctx, t.bin, op, path)
	if err != nil {
		return errors.ControlTool(op, path, code, err)
	}
	if code != 0 {
		slog.Debug("control tool failed", "op", op, "path", path, "exit_code", code, "output", string(bytes.TrimSpace(out)))
		return errors.ControlTool(op, path, code,
			fmt.Errorf("%s", bytes.TrimSpace(out)))
	}
	return nil
}
