package poll

import "github.com/holoplot/go-evdev"

// KeysSize covers every EV_KEY code (KEY_MAX = 0x2ff).
const KeysSize = 768

// Snapshot is the set of keys and mouse buttons held at one instant.
// It is a value; copies never share state.
type Snapshot struct {
	bits [KeysSize / 64]uint64
}

// Pressed reports whether code is held. Out of range codes never are.
func (s Snapshot) Pressed(code evdev.EvCode) bool {
	if int(code) >= KeysSize {
		return false
	}
	return s.bits[code/64]&(1<<(code%64)) != 0
}

// With returns a copy of s with code held.
func (s Snapshot) With(code evdev.EvCode) Snapshot {
	if int(code) < KeysSize {
		s.bits[code/64] |= 1 << (code % 64)
	}
	return s
}

// Merge returns the union of s and o.
func (s Snapshot) Merge(o Snapshot) Snapshot {
	for i := range s.bits {
		s.bits[i] |= o.bits[i]
	}
	return s
}

// Empty reports whether nothing is held.
func (s Snapshot) Empty() bool {
	return s == Snapshot{}
}

// Codes lists the held codes in ascending order.
func (s Snapshot) Codes() []evdev.EvCode {
	var codes []evdev.EvCode
	for i, word := range s.bits {
		for b := 0; word != 0; b++ {
			if word&1 != 0 {
				codes = append(codes, evdev.EvCode(i*64+b))
			}
			word >>= 1
		}
	}
	return codes
}

// SnapshotOf builds a snapshot from held codes.
func SnapshotOf(codes ...evdev.EvCode) Snapshot {
	var s Snapshot
	for _, c := range codes {
		s = s.With(c)
	}
	return s
}
