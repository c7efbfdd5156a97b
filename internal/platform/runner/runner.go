// Package runner is the process-execution boundary used by the provision
// and deploy stages to invoke the rendered shell entry points.
package runner

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Runner executes a command in a working directory, streaming its combined
// output to the given writer.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) error
}

// Exec runs commands with os/exec.
type Exec struct {
	Output io.Writer
}

func (e Exec) Run(ctx context.Context, dir string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if e.Output != nil {
		cmd.Stdout = e.Output
		cmd.Stderr = e.Output
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}
