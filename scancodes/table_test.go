package scancodes

import (
	"testing"

	"github.com/holoplot/go-evdev"
)

func TestLetterTable(t *testing.T) {
	if letterCodes[0] != evdev.KEY_A {
		t.Error("Misalignment before A")
	}
	if letterCodes['q'-'a'] != evdev.KEY_Q {
		t.Error("Misalignment between A-Q")
	}
	if letterCodes[25] != evdev.KEY_Z {
		t.Error("Misalignment between Q-Z")
	}
}

func TestDigitTable(t *testing.T) {
	if digitCodes[0] != evdev.KEY_0 || digitCodes[1] != evdev.KEY_1 || digitCodes[9] != evdev.KEY_9 {
		t.Error("Misaligned digit row")
	}
}

func TestCanonicalNames(t *testing.T) {
	tests := map[evdev.EvCode]string{
		evdev.KEY_ESC:       "Escape",
		evdev.KEY_ENTER:     "Enter",
		evdev.KEY_LEFTSHIFT: "LShift",
		evdev.KEY_LEFTMETA:  "Meta",
		evdev.KEY_UP:        "Up",
		evdev.KEY_0:         "Key0",
		evdev.KEY_A:         "A",
		evdev.BTN_RIGHT:     "MouseRight",
	}
	for code, want := range tests {
		if got := NameOf(code); got != want {
			t.Errorf("NameOf(%d) = %q, want %q", code, got, want)
		}
	}
	if got := NameOf(evdev.KEY_MAX); got != "" {
		t.Errorf("NameOf(KEY_MAX) = %q, want empty", got)
	}
}

func TestShiftedCharsAreDistinct(t *testing.T) {
	seen := make(map[rune]bool)
	for _, s := range symbolChars {
		for _, r := range []rune{s.base, s.shifted} {
			if seen[r] {
				t.Errorf("%q listed twice", r)
			}
			seen[r] = true
		}
	}
}
