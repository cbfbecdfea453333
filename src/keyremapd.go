package main

/*
 keyremapd
 Configurable key-remapping daemon for Linux (evdev + uinput).
/////////////////////////////////////////////////////////////////////////////
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Affero General Public License as
    published by the Free Software Foundation, either version 3 of the
    License, or (at your option) any later version.
    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU Affero General Public License for more details.
    You should have received a copy of the GNU Affero General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
/////////////////////////////////////////////////////////////////////////////

  Polls which keys and mouse buttons are held on every keyboard and mouse,
and while a configured trigger is held, replays its steps: key or button
press/release/click on virtual devices, clipboard pastes, external commands.

  The config is JSON, YAML or TOML (by extension):

	global_delay: 5          # ms added before every step
	mappings:
	  CapsLock:
	    - {key: Control, direction: Press}
	    - {key: c, delay: 10}
	    - {key: Control, direction: Release}
	  MouseBack:
	    - exec: notify-send back

  It reads /dev/input/event* and writes /dev/uinput, so it needs root or
the "input" group plus uinput access.

Referrers:
 https://www.kernel.org/doc/html/latest/input/event-codes.html
 https://www.kernel.org/doc/html/latest/input/uinput.html
*/

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	flag "github.com/spf13/pflag" // CLI keys like python's "argparse"

	"keyremapd/device"
	"keyremapd/inject"
	"keyremapd/mapping"
	"keyremapd/poll"
	"keyremapd/scancodes"
)

const daemonName = "keyremapd"

var errNoConfig = errors.New("config file is required (--config or CONFIG)")

type options struct {
	config      string
	debug       bool
	verbose     bool
	test        bool
	listDevices bool
	debounce    bool
	interval    time.Duration
}

// parseFlags reads the command line; CONFIG, DEBUG, VERBOSE and TEST in
// the environment provide the defaults.
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	env, _ := os.LookupEnv("CONFIG")
	_, debug := os.LookupEnv("DEBUG")
	_, verbose := os.LookupEnv("VERBOSE")
	_, test := os.LookupEnv("TEST")

	F := flag.NewFlagSet(daemonName, flag.ContinueOnError)
	F.SetOutput(stderr)
	F.StringVarP(&o.config, "config", "c", env, "Config file (.json, .yaml, .yml or .toml)")
	F.BoolVarP(&o.debug, "debug", "d", debug, "Debug log level")
	F.BoolVarP(&o.verbose, "verbose", "v", verbose, "Log every replayed step")
	F.BoolVarP(&o.test, "test", "t", test, "Only print held keys to STDERR. No actions.")
	F.BoolVar(&o.listDevices, "list-devices", false, "List input devices and exit")
	F.BoolVar(&o.debounce, "debounce", false, "Fire a trigger once per press instead of every poll while held")
	F.DurationVar(&o.interval, "interval", poll.DefaultInterval, "Pause between two polls")
	if err := F.Parse(args); err != nil {
		return nil, err
	}
	if o.interval <= 0 {
		return nil, fmt.Errorf("--interval must be positive, got %v", o.interval)
	}
	if o.config == "" && !o.listDevices {
		return nil, errNoConfig
	}
	return o, nil
}

func newLogger(o *options, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case o.debug:
		level = slog.LevelDebug
	case o.verbose:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadTable does all the startup validation. Nothing touches a device
// before it succeeds.
func loadTable(o *options) (*mapping.Config, mapping.Table, *regexp.Regexp, error) {
	cfg, err := mapping.Load(o.config)
	if err != nil {
		return nil, mapping.Table{}, nil, fmt.Errorf("config error: %w", err)
	}
	if o.debounce {
		cfg.Debounce = true
	}
	table, err := mapping.Build(cfg)
	if err != nil {
		return nil, mapping.Table{}, nil, fmt.Errorf("config error: %w", err)
	}
	bypass, err := regexp.Compile(cfg.Devices.Bypass)
	if err != nil {
		return nil, mapping.Table{}, nil, fmt.Errorf("config error: invalid regexp for devices.bypass: %w", err)
	}
	return cfg, table, bypass, nil
}

func run(ctx context.Context, o *options, log *slog.Logger, stdout, stderr io.Writer) error {
	if o.listDevices {
		return listDevices(o, stdout)
	}

	cfg, table, bypass, err := loadTable(o)
	if err != nil {
		return err
	}
	log.Info("configuration loaded", "path", o.config, "triggers", len(table.Entries),
		"global_delay", table.GlobalDelay)

	devs, err := device.Open(cfg.Devices.Search, bypass, log)
	if err != nil {
		return err
	}
	defer devs.Close()

	if o.test {
		return poll.Watch(ctx, devs, o.interval, func(s poll.Snapshot) {
			fmt.Fprintln(stderr, heldNames(s))
		})
	}

	sink, err := inject.Open(ctx, table, log)
	if err != nil {
		return err
	}
	defer sink.Close()

	loop := &poll.Loop{
		Table:    table,
		State:    devs,
		Actor:    sink,
		Interval: o.interval,
		Log:      log,
	}
	return loop.Run(ctx)
}

func listDevices(o *options, stdout io.Writer) error {
	search, bypass := mapping.DefaultSearch, mapping.DefaultBypass
	if o.config != "" {
		cfg, _, _, err := loadTable(o)
		if err != nil {
			return err
		}
		search, bypass = cfg.Devices.Search, cfg.Devices.Bypass
	}
	infos, err := device.Scan(search, regexp.MustCompile(bypass))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "devices (%s):\n", search)
	for _, info := range infos {
		fmt.Fprintln(stdout, info)
	}
	return nil
}

func heldNames(s poll.Snapshot) string {
	codes := s.Codes()
	if len(codes) == 0 {
		return "-"
	}
	names := make([]string, 0, len(codes))
	for _, c := range codes {
		name := scancodes.NameOf(c)
		if name == "" {
			name = fmt.Sprintf("0x%x", uint16(c))
		}
		names = append(names, name)
	}
	return strings.Join(names, "+")
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := newLogger(o, os.Stderr)
	slog.SetDefault(log)

	// Signals only close the virtual devices; everything else runs until
	// the process is killed or an injection fails.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, o, log, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
