package inject

import (
	"fmt"
	"time"

	"github.com/holoplot/go-evdev"
	"golang.design/x/clipboard"

	"keyremapd/mapping"
)

// Time for the selection owner change to reach the focused window.
const clipboardSettle = 20 * time.Millisecond

// Clipboard types arbitrary text by pasting it with Ctrl+V.
type Clipboard struct {
	keys keyer
}

func NewClipboard(keys keyer) (*Clipboard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("unable to access clipboard: %w", err)
	}
	return &Clipboard{keys: keys}, nil
}

func (c *Clipboard) Paste(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	time.Sleep(clipboardSettle)
	return ctrlV(c.keys)
}

func ctrlV(keys keyer) error {
	if err := keys.Key(evdev.KEY_LEFTCTRL, false, mapping.Press); err != nil {
		return err
	}
	err := keys.Key(evdev.KEY_V, false, mapping.Click)
	if rerr := keys.Key(evdev.KEY_LEFTCTRL, false, mapping.Release); err == nil {
		err = rerr
	}
	return err
}
