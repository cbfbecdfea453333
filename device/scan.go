// Package device is the device-state provider: it finds the keyboards and
// mice under /dev/input and reports which of their keys and buttons are
// held right now.
package device

import (
	"fmt"
	"regexp"
	"sort"

	gevdev "github.com/gvalkov/golang-evdev"
)

// Info describes one event device.
type Info struct {
	Path     string
	Name     string
	Keyboard bool
	Mouse    bool
	Bypassed bool // name matched the bypass expression
	Skipped  bool // unsupported event types
}

// Polled reports whether the device state is worth reading.
func (i Info) Polled() bool {
	return !i.Bypassed && !i.Skipped && (i.Keyboard || i.Mouse)
}

func (i Info) String() string {
	kind := "other"
	switch {
	case i.Mouse:
		kind = "mouse"
	case i.Keyboard:
		kind = "keyboard"
	}
	switch {
	case i.Bypassed:
		kind += ", bypassed"
	case i.Skipped:
		kind += ", skipped"
	}
	return fmt.Sprintf("%s: %q (%s)", i.Path, i.Name, kind)
}

// Scan lists the event devices matching the search glob. bypass may be nil.
func Scan(search string, bypass *regexp.Regexp) ([]Info, error) {
	devs, err := gevdev.ListInputDevices(search)
	if err != nil {
		return nil, fmt.Errorf("unable to list devices: %w", err)
	}

	infos := make([]Info, 0, len(devs))
	for _, dev := range devs {
		types := make([]int, 0, len(dev.Capabilities))
		for ev := range dev.Capabilities {
			types = append(types, ev.Type)
		}
		info := classify(types)
		info.Path, info.Name = dev.Fn, dev.Name
		info.Bypassed = bypass != nil && bypass.MatchString(dev.Name)
		infos = append(infos, info)
		// Only probing; the state is read through another handle.
		dev.File.Close()
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos, nil
}

// classify sorts a device out by the event types it reports.
func classify(types []int) (info Info) {
	for _, t := range types {
		switch t {
		case gevdev.EV_ABS, gevdev.EV_REL:
			info.Mouse = true
		case gevdev.EV_KEY:
			info.Keyboard = true
		case gevdev.EV_SYN, gevdev.EV_MSC, gevdev.EV_SW, gevdev.EV_LED, gevdev.EV_SND, gevdev.EV_REP, gevdev.EV_FF:
			// EV_SND == "Eee PC WMI hotkeys"
		default:
			info.Skipped = true
		}
	}
	return info
}
