// Package mapping loads the remapping configuration and turns it into an
// immutable table of triggers and the action steps they replay.
package mapping

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"keyremapd/exec"
	"keyremapd/scancodes"
)

// MaxDelay bounds every delay and timeout, in milliseconds. Two of them
// still add up without overflowing a time.Duration.
const MaxDelay = int64(24 * time.Hour / time.Millisecond)

var (
	ErrInvalidStep   = errors.New("invalid step")
	ErrNegativeDelay = errors.New("delay must not be negative")
	ErrDelayTooLong  = errors.New("delay must not exceed one day")
)

// Direction of a synthesized key or button event.
type Direction uint8

const (
	Click Direction = iota // press then release
	Press
	Release
)

func (d Direction) String() string {
	switch d {
	case Click:
		return "Click"
	case Press:
		return "Press"
	case Release:
		return "Release"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection accepts Press, Release or Click in any case. Empty means
// Click.
func ParseDirection(s string) (Direction, error) {
	switch {
	case s == "", strings.EqualFold(s, "Click"):
		return Click, nil
	case strings.EqualFold(s, "Press"):
		return Press, nil
	case strings.EqualFold(s, "Release"):
		return Release, nil
	}
	return Click, fmt.Errorf("%w: unknown direction %q", ErrInvalidStep, s)
}

// Action is what a step does.
type Action uint8

const (
	ActionKey   Action = iota // key or mouse button event
	ActionExec                // external command
	ActionPaste               // clipboard text + Ctrl+V
)

func (a Action) String() string {
	switch a {
	case ActionKey:
		return "key"
	case ActionExec:
		return "exec"
	case ActionPaste:
		return "paste"
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// Step is one action of a mapping.
type Step struct {
	Action    Action
	Target    scancodes.Symbol // ActionKey
	Direction Direction        // ActionKey
	Delay     time.Duration
	Command   *exec.Command // ActionExec
	Text      string        // ActionPaste
}

// Wait is the pause before the step runs.
func (s Step) Wait(global time.Duration) time.Duration {
	return s.Delay + global
}

func (s Step) String() string {
	switch s.Action {
	case ActionExec:
		return "exec " + s.Command.String()
	case ActionPaste:
		return fmt.Sprintf("paste %q", s.Text)
	}
	return s.Direction.String() + " " + s.Target.Name
}

// Entry binds a trigger to the steps it replays in order.
type Entry struct {
	Trigger scancodes.Symbol
	Steps   []Step
}

// Table is built once at startup and never mutated.
type Table struct {
	GlobalDelay time.Duration
	Debounce    bool
	Entries     []Entry
}

// Uses reports whether any step performs action a.
func (t Table) Uses(a Action) bool {
	for _, e := range t.Entries {
		for _, s := range e.Steps {
			if s.Action == a {
				return true
			}
		}
	}
	return false
}

// Build resolves every symbol of cfg. The first problem aborts the whole
// table.
func Build(cfg *Config) (Table, error) {
	var t Table
	if cfg.GlobalDelay != nil {
		d, err := millis(*cfg.GlobalDelay)
		if err != nil {
			return Table{}, fmt.Errorf("global_delay: %w", err)
		}
		t.GlobalDelay = d
	}
	t.Debounce = cfg.Debounce

	seen := make(map[scancodes.Symbol]string, len(cfg.Mappings))
	for name, steps := range cfg.Mappings {
		trigger, err := scancodes.Trigger(name)
		if err != nil {
			return Table{}, err
		}
		key := scancodes.Symbol{Kind: trigger.Kind, Code: trigger.Code}
		if other, ok := seen[key]; ok {
			return Table{}, fmt.Errorf("triggers %q and %q are the same input", other, name)
		}
		seen[key] = name

		e := Entry{Trigger: trigger, Steps: make([]Step, 0, len(steps))}
		for i, sc := range steps {
			s, err := buildStep(sc)
			if err != nil {
				return Table{}, fmt.Errorf("mapping %q step %d: %w", name, i, err)
			}
			e.Steps = append(e.Steps, s)
		}
		t.Entries = append(t.Entries, e)
	}
	// Map order is random; replay order must not be.
	sort.Slice(t.Entries, func(i, j int) bool {
		return t.Entries[i].Trigger.Name < t.Entries[j].Trigger.Name
	})
	return t, nil
}

func buildStep(sc StepConfig) (Step, error) {
	var s Step
	if sc.Delay != nil {
		d, err := millis(*sc.Delay)
		if err != nil {
			return s, err
		}
		s.Delay = d
	}

	set := 0
	for _, v := range []string{sc.Key, sc.Exec, sc.Paste} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return s, fmt.Errorf("%w: exactly one of key, exec or paste is required", ErrInvalidStep)
	}

	switch {
	case sc.Key != "":
		target, err := scancodes.Target(sc.Key)
		if err != nil {
			return s, err
		}
		dir, err := ParseDirection(sc.Direction)
		if err != nil {
			return s, err
		}
		s.Action, s.Target, s.Direction = ActionKey, target, dir
	case sc.Exec != "":
		cmd, err := exec.Parse(sc.Exec, sc.Shell)
		if err != nil {
			return s, fmt.Errorf("%w: %v", ErrInvalidStep, err)
		}
		if !(sc.Timeout >= 0 && sc.Timeout <= Seconds(MaxDelay/1000)) {
			return s, fmt.Errorf("%w: timeout %vs out of range", ErrInvalidStep, float64(sc.Timeout))
		}
		cmd.Wait = sc.Wait
		cmd.Timeout = time.Duration(float64(sc.Timeout) * float64(time.Second))
		s.Action, s.Command = ActionExec, cmd
	case sc.Paste != "":
		s.Action, s.Text = ActionPaste, sc.Paste
	}
	return s, nil
}

func millis(ms int64) (time.Duration, error) {
	switch {
	case ms < 0:
		return 0, ErrNegativeDelay
	case ms > MaxDelay:
		return 0, ErrDelayTooLong
	}
	return time.Duration(ms) * time.Millisecond, nil
}
