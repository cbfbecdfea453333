package inject

import (
	"fmt"
	"time"

	"github.com/holoplot/go-evdev"
	"github.com/micmonay/keybd_event"

	"keyremapd/mapping"
)

// KeyboardName is the name keybd_event gives its uinput device.
const KeyboardName = "keybd interface"

const (
	// A fresh uinput keyboard is ignored until the desktop has picked it up.
	keyboardWarmUp = 2 * time.Second
	// Pause after each synthesized event.
	settle = 5 * time.Millisecond
)

// Keyboard is the virtual keyboard. keybd_event cannot destroy it; the
// kernel drops the device when the process exits.
type Keyboard struct {
	kb keybd_event.KeyBonding
}

func NewKeyboard() (*Keyboard, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("unable to attach virtual keyboard: %w", err)
	}
	time.Sleep(keyboardWarmUp)
	return &Keyboard{kb: kb}, nil
}

// Key pushes, releases or taps a key, holding Shift around it if asked.
func (k *Keyboard) Key(code evdev.EvCode, shift bool, dir mapping.Direction) error {
	k.kb.Clear()
	k.kb.HasSHIFT(shift)
	k.kb.SetKeys(int(code))

	var err error
	switch dir {
	case mapping.Press:
		err = k.kb.Press()
	case mapping.Release:
		err = k.kb.Release()
	default:
		err = k.kb.Launching()
	}
	time.Sleep(settle)
	return err
}
