// internal/tools/runner.go

// Package tools is the single seam through which every external program is
// invoked. Classifier, renderer and sequence-indexing calls all go through
// Runner so unit tests can substitute a fake.
package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Command describes one external invocation with structured arguments.
type Command struct {
	Name string
	Args []string
	Dir  string // working directory; empty means inherit
}

func (c Command) String() string {
	out := c.Name
	for _, a := range c.Args {
		out += " " + a
	}
	return out
}

// Result carries the captured output and exit status of a finished command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes external commands. A non-zero exit status is an error.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Log *zap.Logger
}

func NewExecRunner(log *zap.Logger) *ExecRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExecRunner{Log: log}
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	r.Log.Debug("exec", zap.String("cmd", cmd.String()))

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if c.ProcessState != nil {
		res.ExitCode = c.ProcessState.ExitCode()
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return res, nil
}

// CheckBinaries verifies that every required external program is on PATH.
// A missing binary aborts the whole run.
func CheckBinaries(names ...string) error {
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			return fmt.Errorf("required tool %q not found on PATH: %w", name, err)
		}
	}
	return nil
}
