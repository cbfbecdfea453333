package exec

/*
  Fold external command execution for "exec" steps.
*/

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"
)

const (
	// DefaultMaxReply caps the captured stdout and stderr, each.
	DefaultMaxReply = 4096
	// Grace period between SIGTERM and SIGKILL of a timed out process group.
	killDelay = time.Second / 2
)

var ErrEmptyCommand = errors.New("empty command")

type Command struct {
	Command  string
	Args     []string
	UseShell bool          // run Command through "/bin/bash -c"
	Wait     bool          // otherwise just start it and reap in background
	Timeout  time.Duration // 0 = no limit (only when Wait)
	MaxReply int64
	Dir      string
	Env      []string
}

type Result struct {
	Processed bool     `json:"processed"` // Was the process ever started?
	Command   string   `json:"command"`
	Args      []string `json:"args,omitempty"`
	Status    int      `json:"status"`
	StdOut    []byte   `json:"stdout,omitempty"`
	StdErr    []byte   `json:"stderr,omitempty"`
	Err       error    `json:"-"`
}

// Parse splits a command line the way a POSIX shell would. With shell set,
// the line is kept whole for bash.
func Parse(line string, shell bool) (*Command, error) {
	if shell {
		if line == "" {
			return nil, ErrEmptyCommand
		}
		return &Command{Command: line, UseShell: true, MaxReply: DefaultMaxReply}, nil
	}
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCommand
	}
	return &Command{Command: words[0], Args: words[1:], MaxReply: DefaultMaxReply}, nil
}

func (c *Command) String() string {
	if c.UseShell {
		return c.Command
	}
	return shellquote.Join(append([]string{c.Command}, c.Args...)...)
}

// Run executes c. Errors are reported inside the Result.
func Run(ctx context.Context, c *Command) *Result {
	r := &Result{Command: c.Command, Args: c.Args}

	if c.Wait && c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	if !c.Wait {
		// Detached commands outlive the step.
		ctx = context.Background()
	}

	var cmd *exec.Cmd
	if c.UseShell { // bash is *sh's mainstream
		cmd = exec.CommandContext(ctx, "/bin/bash", "-c", c.Command)
		cmd.Args = append(cmd.Args, c.Args...)
	} else {
		cmd = exec.CommandContext(ctx, c.Command, c.Args...)
	}
	// Own process group, so a timeout kills the children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	exited := make(chan struct{})
	cmd.Cancel = func() error {
		pid := cmd.Process.Pid
		err := syscall.Kill(-pid, syscall.SIGTERM)
		go func() {
			select {
			case <-exited:
			case <-time.After(killDelay):
				syscall.Kill(-pid, syscall.SIGKILL)
			}
		}()
		return err
	}
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}

	limit := c.MaxReply
	if limit <= 0 {
		limit = DefaultMaxReply
	}
	stdout := &capped{max: limit}
	stderr := &capped{max: limit}
	if c.Wait { // Otherwise stdout&stderr go to /dev/null.
		cmd.Stdout, cmd.Stderr = stdout, stderr
	}

	if err := cmd.Start(); err != nil {
		r.Status = -1 // No such command at all?
		r.Err = err
		r.StdErr = []byte(err.Error())
		return r
	}
	r.Processed = true

	if !c.Wait {
		go func() {
			cmd.Wait()
			close(exited)
		}()
		return r
	}

	err := cmd.Wait()
	close(exited)
	r.StdOut = stdout.Bytes()
	r.StdErr = stderr.Bytes()
	if err != nil {
		r.Err = err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.Status = exitErr.ExitCode()
		} else {
			r.Status = -1
		}
		if ctx.Err() != nil {
			r.Err = fmt.Errorf("%w: %v", ctx.Err(), err)
		}
	}
	return r
}

// capped keeps the first max bytes and silently drops the rest. The buffer
// is not embedded: io.Copy would find its ReadFrom and bypass Write.
type capped struct {
	buf bytes.Buffer
	max int64
}

func (w *capped) Write(p []byte) (int, error) {
	if room := w.max - int64(w.buf.Len()); room > 0 {
		if int64(len(p)) > room {
			w.buf.Write(p[:room])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}

func (w *capped) Bytes() []byte {
	return w.buf.Bytes()
}
