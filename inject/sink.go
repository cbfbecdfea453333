// Package inject is the input-injection sink: it turns mapping steps into
// synthesized key and mouse button events, clipboard pastes and external
// commands.
package inject

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/holoplot/go-evdev"

	"keyremapd/exec"
	"keyremapd/mapping"
	"keyremapd/scancodes"
)

var ErrNoDevice = errors.New("no device for step")

type keyer interface {
	Key(code evdev.EvCode, shift bool, dir mapping.Direction) error
}

type paster interface {
	Paste(text string) error
}

// Sink implements poll.Actor. Only the devices a table needs are set.
type Sink struct {
	Keyboard  keyer
	Mouse     keyer
	Clipboard paster
	Exec      func(context.Context, *exec.Command) *exec.Result
	Log       *slog.Logger

	ctx     context.Context
	closers []func() error
}

// Open attaches the virtual devices table uses.
func Open(ctx context.Context, table mapping.Table, log *slog.Logger) (*Sink, error) {
	s := &Sink{Exec: exec.Run, Log: log, ctx: ctx}

	needs := needs(table)
	clip := table.Uses(mapping.ActionPaste) || keyless(table)
	if needs[scancodes.KindKey] || needs[scancodes.KindLiteral] || clip {
		kbd, err := NewKeyboard()
		if err != nil {
			return nil, err
		}
		s.Keyboard = kbd
	}
	if needs[scancodes.KindButton] {
		mouse, err := NewMouse()
		if err != nil {
			return nil, err
		}
		s.Mouse = mouse
		s.closers = append(s.closers, mouse.Close)
	}
	if clip {
		c, err := NewClipboard(s.Keyboard)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Clipboard = c
	}
	return s, nil
}

func needs(table mapping.Table) map[scancodes.Kind]bool {
	kinds := make(map[scancodes.Kind]bool)
	for _, e := range table.Entries {
		for _, step := range e.Steps {
			if step.Action == mapping.ActionKey {
				kinds[step.Target.Kind] = true
			}
		}
	}
	return kinds
}

// keyless reports whether some step types a character no key produces.
func keyless(table mapping.Table) bool {
	for _, e := range table.Entries {
		for _, step := range e.Steps {
			if step.Action == mapping.ActionKey && step.Target.Keyless() {
				return true
			}
		}
	}
	return false
}

// Do performs one step.
func (s *Sink) Do(step mapping.Step) error {
	switch step.Action {
	case mapping.ActionKey:
		if step.Target.Keyless() {
			return s.typeKeyless(step)
		}
		dev := s.Keyboard
		if step.Target.Kind == scancodes.KindButton {
			dev = s.Mouse
		}
		if dev == nil {
			return fmt.Errorf("%w: %s", ErrNoDevice, step)
		}
		return dev.Key(step.Target.Code, step.Target.Shift, step.Direction)

	case mapping.ActionPaste:
		if s.Clipboard == nil {
			return fmt.Errorf("%w: %s", ErrNoDevice, step)
		}
		return s.Clipboard.Paste(step.Text)

	case mapping.ActionExec:
		s.run(step.Command)
		return nil
	}
	return fmt.Errorf("unknown action %v", step.Action)
}

// typeKeyless enters the character through the clipboard. There is no key
// to hold, so Release does nothing.
func (s *Sink) typeKeyless(step mapping.Step) error {
	if step.Direction == mapping.Release {
		return nil
	}
	if s.Clipboard == nil {
		return fmt.Errorf("%w: %s", ErrNoDevice, step)
	}
	return s.Clipboard.Paste(step.Target.Name)
}

// run reports command failures without stopping the loop: they are not
// injection failures.
func (s *Sink) run(cmd *exec.Command) {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	r := s.Exec(ctx, cmd)
	log := s.logger().With("command", cmd.String())
	switch {
	case !r.Processed:
		log.Error("exec failed", "error", r.Err)
	case r.Err != nil:
		log.Warn("exec", "status", r.Status, "error", r.Err, "stderr", string(r.StdErr))
	case cmd.Wait:
		log.Info("exec", "status", r.Status, "stdout", string(r.StdOut))
	default:
		log.Info("exec started")
	}
}

func (s *Sink) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func (s *Sink) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	s.closers = nil
	return errors.Join(errs...)
}
