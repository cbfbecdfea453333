// Package poll runs the poll-match-act cycle: snapshot the held inputs,
// replay the steps of every active trigger, sleep, repeat.
package poll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"keyremapd/mapping"
)

// DefaultInterval bounds CPU usage between two scans.
const DefaultInterval = 50 * time.Millisecond

// StateReader reports the currently held keys and mouse buttons.
type StateReader interface {
	Snapshot() (Snapshot, error)
}

// Actor performs one step: injects an event, runs a command...
type Actor interface {
	Do(step mapping.Step) error
}

type Loop struct {
	Table    mapping.Table
	State    StateReader
	Actor    Actor
	Interval time.Duration       // DefaultInterval if zero
	Sleep    func(time.Duration) // time.Sleep if nil
	Log      *slog.Logger        // slog.Default() if nil
}

// Run scans until ctx is done or a scan fails.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	l.logger().Info("polling", "triggers", len(l.Table.Entries), "interval", interval,
		"global_delay", l.Table.GlobalDelay, "debounce", l.Table.Debounce)

	var (
		prev Snapshot
		err  error
	)
	for ctx.Err() == nil {
		if prev, err = l.Tick(prev); err != nil {
			return err
		}
		l.sleep(interval)
	}
	return nil
}

// Tick is a single iteration. prev is the snapshot of the previous one and
// only matters with debouncing; the new snapshot is returned for the next.
func (l *Loop) Tick(prev Snapshot) (Snapshot, error) {
	snap, err := l.State.Snapshot()
	if err != nil {
		return prev, fmt.Errorf("unable to query device state: %w", err)
	}
	for _, e := range l.Table.Entries {
		if !active(e, snap, prev, l.Table.Debounce) {
			continue
		}
		if err := l.replay(e); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// active decides whether e fires. Without debouncing a held trigger fires
// on every scan.
func active(e mapping.Entry, snap, prev Snapshot, debounce bool) bool {
	if !snap.Pressed(e.Trigger.Code) {
		return false
	}
	return !debounce || !prev.Pressed(e.Trigger.Code)
}

func (l *Loop) replay(e mapping.Entry) error {
	log := l.logger()
	log.Debug("trigger", "trigger", e.Trigger.Name, "steps", len(e.Steps))
	for i, step := range e.Steps {
		if wait := step.Wait(l.Table.GlobalDelay); wait > 0 {
			l.sleep(wait)
		}
		log.Info("step", "trigger", e.Trigger.Name, "step", step.String(), "delay", step.Delay)
		if err := l.Actor.Do(step); err != nil {
			return fmt.Errorf("mapping %q step %d (%s): %w", e.Trigger.Name, i, step, err)
		}
	}
	return nil
}

func (l *Loop) sleep(d time.Duration) {
	if l.Sleep != nil {
		l.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (l *Loop) logger() *slog.Logger {
	if l.Log != nil {
		return l.Log
	}
	return slog.Default()
}

// Watch reports every change of the held set to fn without acting on it.
func Watch(ctx context.Context, state StateReader, interval time.Duration, fn func(Snapshot)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	var prev Snapshot
	for ctx.Err() == nil {
		snap, err := state.Snapshot()
		if err != nil {
			return fmt.Errorf("unable to query device state: %w", err)
		}
		if snap != prev {
			fn(snap)
			prev = snap
		}
		time.Sleep(interval)
	}
	return nil
}
