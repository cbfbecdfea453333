package inject

import (
	"fmt"
	"time"

	"github.com/holoplot/go-evdev"

	"keyremapd/mapping"
)

// MouseName is the name of the virtual mouse, also listed in the default
// device bypass so it is never polled back.
const MouseName = "keyremapd virtual mouse"

var mouseButtons = []evdev.EvCode{
	evdev.BTN_LEFT, evdev.BTN_RIGHT, evdev.BTN_MIDDLE, evdev.BTN_SIDE, evdev.BTN_EXTRA,
}

var synReport = evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}

// Mouse is a uinput pointer device that only ever clicks.
type Mouse struct {
	dev *evdev.InputDevice
}

func NewMouse() (*Mouse, error) {
	dev, err := evdev.CreateDevice(MouseName, evdev.InputID{
		BusType: 0x03, // BUS_USB
		Vendor:  0x4b52,
		Product: 0x0001,
		Version: 1,
	}, map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: mouseButtons,
		// Without relative axes nobody takes it for a mouse.
		evdev.EV_REL: {evdev.REL_X, evdev.REL_Y, evdev.REL_WHEEL},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create virtual mouse: %w", err)
	}
	return &Mouse{dev: dev}, nil
}

// Key pushes, releases or clicks a button. shift has no meaning here.
func (m *Mouse) Key(code evdev.EvCode, _ bool, dir mapping.Direction) error {
	switch dir {
	case mapping.Press:
		return m.send(code, 1)
	case mapping.Release:
		return m.send(code, 0)
	}
	if err := m.send(code, 1); err != nil {
		return err
	}
	return m.send(code, 0)
}

func (m *Mouse) send(code evdev.EvCode, value int32) error {
	ev := evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value}
	if err := m.dev.WriteOne(&ev); err != nil {
		return err
	}
	syn := synReport
	if err := m.dev.WriteOne(&syn); err != nil {
		return err
	}
	time.Sleep(settle)
	return nil
}

func (m *Mouse) Close() error {
	return m.dev.Close()
}
