package mapping

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/holoplot/go-evdev"

	"keyremapd/scancodes"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const jsonConfig = `{
  "global_delay": 5,
  "mappings": {
    "A": [{"key": "B", "delay": 10, "direction": "Press"}],
    "F1": [
      {"key": "Control", "direction": "press"},
      {"key": "c"},
      {"key": "Control", "direction": "Release"}
    ]
  }
}`

const yamlConfig = `
global_delay: 5
mappings:
  A:
    - key: B
      delay: 10
      direction: Press
  F1:
    - key: Control
      direction: press
    - key: c
    - key: Control
      direction: Release
`

const tomlConfig = `
global_delay = 5

[[mappings.A]]
key = "B"
delay = 10
direction = "Press"

[[mappings.F1]]
key = "Control"
direction = "press"

[[mappings.F1]]
key = "c"

[[mappings.F1]]
key = "Control"
direction = "Release"
`

func TestLoadFormats(t *testing.T) {
	for name, body := range map[string]string{
		"keys.json": jsonConfig,
		"keys.yaml": yamlConfig,
		"keys.yml":  yamlConfig,
		"keys.toml": tomlConfig,
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, name, body))
			if err != nil {
				t.Fatal(err)
			}
			table, err := Build(cfg)
			if err != nil {
				t.Fatal(err)
			}
			if table.GlobalDelay != 5*time.Millisecond {
				t.Errorf("global delay = %v", table.GlobalDelay)
			}
			if len(table.Entries) != 2 {
				t.Fatalf("entries = %d, want 2", len(table.Entries))
			}
			a := table.Entries[0]
			if a.Trigger.Name != "A" || a.Trigger.Code != evdev.KEY_A {
				t.Errorf("first trigger = %+v", a.Trigger)
			}
			want := Step{
				Action:    ActionKey,
				Target:    scancodes.Symbol{Kind: scancodes.KindLiteral, Code: evdev.KEY_B, Shift: true, Name: "B"},
				Direction: Press,
				Delay:     10 * time.Millisecond,
			}
			if len(a.Steps) != 1 || a.Steps[0] != want {
				t.Errorf("A steps = %+v, want %+v", a.Steps, want)
			}
			if got := a.Steps[0].Wait(table.GlobalDelay); got != 15*time.Millisecond {
				t.Errorf("wait = %v, want 15ms", got)
			}
			f1 := table.Entries[1].Steps
			if len(f1) != 3 || f1[0].Direction != Press || f1[1].Direction != Click || f1[2].Direction != Release {
				t.Errorf("F1 steps = %+v", f1)
			}
			if f1[1].Target.Kind != scancodes.KindLiteral || f1[1].Target.Shift {
				t.Errorf("c = %+v", f1[1].Target)
			}
			if cfg.Devices.Search != DefaultSearch || cfg.Devices.Bypass != DefaultBypass {
				t.Errorf("device defaults not applied: %+v", cfg.Devices)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := Load(writeConfig(t, "keys.ini", "[x]")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("unknown extension error = %v", err)
	}
	for name, body := range map[string]string{
		"bad.json":  `{"mappings": {`,
		"bad.yaml":  "mappings: [unclosed",
		"bad.toml":  "mappings = = 1",
		"typo.json": `{"mapings": {}}`,
		"typo.yaml": "global_dealy: 3\n",
		"typo.toml": "global_dealy = 3\n",
		"step.toml": "[[mappings.A]]\nkey = \"b\"\nwiat = true\n",
	} {
		if _, err := Load(writeConfig(t, name, body)); err == nil {
			t.Errorf("%s: malformed config accepted", name)
		}
	}
}

func TestEmptyMappings(t *testing.T) {
	cfg, err := Parse([]byte(`{"mappings": {}}`), ".json")
	if err != nil {
		t.Fatal(err)
	}
	table, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Entries) != 0 || table.GlobalDelay != 0 {
		t.Errorf("table = %+v", table)
	}
}

func TestBuildRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"unknown trigger", `{"mappings": {"Hyper": [{"key": "a"}]}}`, scancodes.ErrUnsupportedSymbol},
		{"unknown target", `{"mappings": {"A": [{"key": "Food"}]}}`, scancodes.ErrUnsupportedSymbol},
		{"unknown direction", `{"mappings": {"A": [{"key": "b", "direction": "Hold"}]}}`, ErrInvalidStep},
		{"negative delay", `{"mappings": {"A": [{"key": "b", "delay": -1}]}}`, ErrNegativeDelay},
		{"negative global", `{"global_delay": -5, "mappings": {}}`, ErrNegativeDelay},
		{"empty step", `{"mappings": {"A": [{"delay": 3}]}}`, ErrInvalidStep},
		{"two actions", `{"mappings": {"A": [{"key": "b", "paste": "x"}]}}`, ErrInvalidStep},
		{"blank exec", `{"mappings": {"A": [{"exec": "  "}]}}`, ErrInvalidStep},
		{"huge global", `{"global_delay": 9223372036854775807, "mappings": {"A": [{"key": "b"}]}}`, ErrDelayTooLong},
		{"huge delay", `{"mappings": {"A": [{"key": "b", "delay": 86400001}]}}`, ErrDelayTooLong},
		{"huge timeout", `{"mappings": {"A": [{"exec": "true", "wait": true, "timeout": 1e12}]}}`, ErrInvalidStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.body), ".json")
			if err != nil {
				t.Fatal(err)
			}
			table, err := Build(cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("Build error = %v, want %v", err, tt.want)
			}
			if len(table.Entries) != 0 {
				t.Errorf("partial table returned: %+v", table)
			}
		})
	}
}

func TestBuildRejectsDuplicateTriggers(t *testing.T) {
	cfg, err := Parse([]byte(`{"mappings": {"Up": [{"key": "a"}], "UpArrow": [{"key": "b"}]}}`), ".json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Build(cfg); err == nil {
		t.Error("aliases of one key accepted as two triggers")
	}
}

func TestBuildExecAndPaste(t *testing.T) {
	cfg, err := Parse([]byte(`
mappings:
  MouseBack:
    - exec: notify-send "going back"
      wait: true
      timeout: 1.5
    - paste: "¯\\_(ツ)_/¯"
      delay: 20
`), ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	table, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	steps := table.Entries[0].Steps
	if table.Entries[0].Trigger.Kind != scancodes.KindButton {
		t.Errorf("trigger = %+v", table.Entries[0].Trigger)
	}
	if steps[0].Action != ActionExec || steps[0].Command.Command != "notify-send" ||
		!steps[0].Command.Wait || steps[0].Command.Timeout != 1500*time.Millisecond {
		t.Errorf("exec step = %+v (%+v)", steps[0], steps[0].Command)
	}
	if steps[1].Action != ActionPaste || steps[1].Text != `¯\_(ツ)_/¯` || steps[1].Delay != 20*time.Millisecond {
		t.Errorf("paste step = %+v", steps[1])
	}
	if !table.Uses(ActionPaste) || !table.Uses(ActionExec) || table.Uses(ActionKey) {
		t.Error("Uses reports wrong actions")
	}
}

func TestTimeoutNumbers(t *testing.T) {
	for _, tt := range []struct {
		body, ext string
		want      time.Duration
	}{
		{"[[mappings.F1]]\nexec = \"true\"\nwait = true\ntimeout = 2\n", ".toml", 2 * time.Second},
		{"[[mappings.F1]]\nexec = \"true\"\nwait = true\ntimeout = 0.25\n", ".toml", 250 * time.Millisecond},
		{"mappings:\n  F1:\n    - exec: \"true\"\n      wait: true\n      timeout: 2\n", ".yaml", 2 * time.Second},
		{`{"mappings": {"F1": [{"exec": "true", "wait": true, "timeout": 2}]}}`, ".json", 2 * time.Second},
	} {
		cfg, err := Parse([]byte(tt.body), tt.ext)
		if err != nil {
			t.Errorf("%s: %v", tt.ext, err)
			continue
		}
		table, err := Build(cfg)
		if err != nil {
			t.Errorf("%s: %v", tt.ext, err)
			continue
		}
		if got := table.Entries[0].Steps[0].Command.Timeout; got != tt.want {
			t.Errorf("%s timeout = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestDelaysDoNotOverflow(t *testing.T) {
	cfg, err := Parse([]byte(fmt.Sprintf(`{"global_delay": %d, "mappings": {"A": [{"key": "b", "delay": %d}]}}`,
		MaxDelay, MaxDelay)), ".json")
	if err != nil {
		t.Fatal(err)
	}
	table, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Entries[0].Steps[0].Wait(table.GlobalDelay); got != 48*time.Hour {
		t.Errorf("wait = %v, want 48h", got)
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"": Click, "Click": Click, "press": Press, "RELEASE": Release} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v", in, got, err)
		}
	}
}

func TestEntriesAreSorted(t *testing.T) {
	cfg, _ := Parse([]byte(`{"mappings": {"F2": [{"key": "b"}], "B": [{"key": "c"}], "Escape": [{"key": "d"}]}}`), ".json")
	table, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range table.Entries {
		names = append(names, e.Trigger.Name)
	}
	if len(names) != 3 || names[0] != "B" || names[1] != "Escape" || names[2] != "F2" {
		t.Errorf("order = %v", names)
	}
}

func TestDefaultBypass(t *testing.T) {
	bypass := regexp.MustCompile(DefaultBypass)
	for name, want := range map[string]bool{
		"keybd interface":              true,
		"keyremapd virtual mouse":      true,
		"USB2.0 HD UVC WebCamera":      true,
		"Video Bus":                    true,
		"AT Translated Set 2 keyboard": false,
		"Logitech USB Optical Mouse":   false,
	} {
		if got := bypass.MatchString(name); got != want {
			t.Errorf("bypass %q = %v, want %v", name, got, want)
		}
	}
}
