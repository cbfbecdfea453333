package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSearch = "/dev/input/event*"
	// Cameras and remotes report EV_KEY too. Our own virtual devices must
	// never be read back, or every injected key would re-trigger.
	// keybd_event registers its keyboard as "keybd interface".
	DefaultBypass = `(?i)Video|Camera|keybd interface|keyremapd`
)

var ErrUnknownFormat = errors.New("unsupported config file format, use JSON, YAML or TOML")

// Config mirrors the configuration file.
type Config struct {
	GlobalDelay *int64                  `json:"global_delay" yaml:"global_delay" toml:"global_delay"`
	Debounce    bool                    `json:"debounce" yaml:"debounce" toml:"debounce"`
	Devices     DeviceConfig            `json:"devices" yaml:"devices" toml:"devices"`
	Mappings    map[string][]StepConfig `json:"mappings" yaml:"mappings" toml:"mappings"`
}

// DeviceConfig selects the input devices whose state is polled.
type DeviceConfig struct {
	Search string `json:"search" yaml:"search" toml:"search"`
	Bypass string `json:"bypass" yaml:"bypass" toml:"bypass"`
}

// StepConfig is one action as written by the user. Exactly one of Key,
// Exec and Paste is set.
type StepConfig struct {
	Key       string  `json:"key" yaml:"key" toml:"key"`
	Delay     *int64  `json:"delay" yaml:"delay" toml:"delay"`
	Direction string  `json:"direction" yaml:"direction" toml:"direction"`
	Exec      string  `json:"exec" yaml:"exec" toml:"exec"`
	Shell     bool    `json:"shell" yaml:"shell" toml:"shell"`
	Wait      bool    `json:"wait" yaml:"wait" toml:"wait"`
	Timeout   Seconds `json:"timeout" yaml:"timeout" toml:"timeout"`
	Paste     string  `json:"paste" yaml:"paste" toml:"paste"`
}

// Seconds is a duration written as a number of seconds. TOML tells integers
// from floats, so both are accepted there.
type Seconds float64

func (s *Seconds) UnmarshalTOML(v interface{}) error {
	switch n := v.(type) {
	case int64:
		*s = Seconds(n)
	case float64:
		*s = Seconds(n)
	default:
		return fmt.Errorf("want a number of seconds, got %T", v)
	}
	return nil
}

// Load reads and parses a configuration file; the format follows the
// file extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext (".json", ".yaml", ".yml"
// or ".toml") and applies defaults.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := &Config{}
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("invalid JSON format: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML format: %w", err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data)).Strict(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("invalid TOML format: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if cfg.Devices.Search == "" {
		cfg.Devices.Search = DefaultSearch
	}
	if cfg.Devices.Bypass == "" {
		cfg.Devices.Bypass = DefaultBypass
	}
	return cfg, nil
}
