package device

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/fsnotify/fsnotify"
	"github.com/holoplot/go-evdev"

	"keyremapd/poll"
)

var ErrNoDevices = errors.New("no keyboard or mouse found")

// stater is the part of an open input device the provider needs.
type stater interface {
	State(t evdev.EvType) (evdev.StateMap, error)
	Close() error
}

// Provider merges the key state of every polled device into one snapshot.
// It is driven from the poll loop only and needs no locking.
type Provider struct {
	search  string
	bypass  *regexp.Regexp
	log     *slog.Logger
	devices map[string]stater
	watcher *fsnotify.Watcher

	scan func() ([]Info, error)
	open func(path string) (stater, error)
}

// Open scans for devices and starts watching their directory for hotplug.
func Open(search string, bypass *regexp.Regexp, log *slog.Logger) (*Provider, error) {
	p := newProvider(search, bypass, log)
	if err := p.rescan(); err != nil {
		p.Close()
		return nil, err
	}
	if len(p.devices) == 0 {
		p.Close()
		return nil, fmt.Errorf("%w matching %q", ErrNoDevices, search)
	}
	if err := p.watch(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func newProvider(search string, bypass *regexp.Regexp, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	p := &Provider{
		search:  search,
		bypass:  bypass,
		log:     log,
		devices: make(map[string]stater),
	}
	p.scan = func() ([]Info, error) { return Scan(p.search, p.bypass) }
	p.open = func(path string) (stater, error) { return evdev.Open(path) }
	return p
}

func (p *Provider) watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(p.search)); err != nil {
		w.Close()
		return fmt.Errorf("unable to watch %s: %w", filepath.Dir(p.search), err)
	}
	p.watcher = w
	return nil
}

// rescan opens polled devices that are not open yet.
func (p *Provider) rescan() error {
	infos, err := p.scan()
	if err != nil {
		return err
	}
	for _, info := range infos {
		if !info.Polled() {
			p.log.Debug("ignoring device", "device", info.String())
			continue
		}
		if _, ok := p.devices[info.Path]; ok {
			continue
		}
		d, err := p.open(info.Path)
		if err != nil {
			p.log.Warn("unable to open device", "path", info.Path, "error", err)
			continue
		}
		p.devices[info.Path] = d
		p.log.Info("attached", "device", info.String())
	}
	return nil
}

// hotplug drains pending directory events without blocking.
func (p *Provider) hotplug() {
	if p.watcher == nil {
		return
	}
	created := false
	for {
		select {
		case ev := <-p.watcher.Events:
			match, _ := filepath.Match(p.search, ev.Name)
			if !match {
				continue
			}
			switch {
			case ev.Has(fsnotify.Create):
				created = true
			case ev.Has(fsnotify.Remove):
				p.drop(ev.Name, errors.New("removed"))
			}
		case err := <-p.watcher.Errors:
			p.log.Warn("device watcher", "error", err)
		default:
			if created {
				if err := p.rescan(); err != nil {
					p.log.Warn("rescan", "error", err)
				}
			}
			return
		}
	}
}

func (p *Provider) drop(path string, reason error) {
	d, ok := p.devices[path]
	if !ok {
		return
	}
	d.Close()
	delete(p.devices, path)
	p.log.Warn("lost device", "path", path, "error", reason)
}

// Snapshot implements poll.StateReader. A device that fails to report is
// dropped until it shows up again.
func (p *Provider) Snapshot() (poll.Snapshot, error) {
	p.hotplug()
	var snap poll.Snapshot
	for path, d := range p.devices {
		state, err := d.State(evdev.EV_KEY)
		if err != nil {
			p.drop(path, err)
			continue
		}
		for code, on := range state {
			if on {
				snap = snap.With(code)
			}
		}
	}
	return snap, nil
}

// Len is the number of devices being polled.
func (p *Provider) Len() int {
	return len(p.devices)
}

func (p *Provider) Close() error {
	var errs []error
	if p.watcher != nil {
		errs = append(errs, p.watcher.Close())
	}
	for path, d := range p.devices {
		errs = append(errs, d.Close())
		delete(p.devices, path)
	}
	return errors.Join(errs...)
}
