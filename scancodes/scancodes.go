// Package scancodes translates human-readable key and mouse button names
// into Linux input event codes, and printable characters into the key (plus
// Shift) that produces them on a US layout.
package scancodes

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/holoplot/go-evdev"
)

// ErrUnsupportedSymbol is returned for names with no mapping.
var ErrUnsupportedSymbol = errors.New("unsupported symbol")

// Kind tells the injection side which device a Symbol belongs to.
type Kind uint8

const (
	KindKey     Kind = iota // named keyboard key
	KindButton              // mouse button
	KindLiteral             // single printable character
)

func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindButton:
		return "button"
	case KindLiteral:
		return "literal"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Symbol is a resolved trigger or action target.
type Symbol struct {
	Kind  Kind
	Code  evdev.EvCode // 0 for a literal with no key on the US layout
	Shift bool         // literal needs Shift held
	Name  string
}

func (s Symbol) String() string {
	return s.Name
}

// Keyless reports a literal character that no key of the US layout types.
// Such characters can only be entered through the clipboard.
func (s Symbol) Keyless() bool {
	return s.Kind == KindLiteral && s.Code == 0
}

// Trigger resolves the name of an input that activates a mapping.
// Known names win; a single character is accepted when it sits on a
// physical key, Shift being irrelevant for detection.
func Trigger(name string) (Symbol, error) {
	if s, ok := byName[name]; ok {
		return s, nil
	}
	if r, ok := single(name); ok {
		if code, _, ok := ForChar(r); ok {
			return Symbol{Kind: KindKey, Code: code, Name: name}, nil
		}
	}
	return Symbol{}, fmt.Errorf("%w: trigger %q", ErrUnsupportedSymbol, name)
}

// Target resolves the name of a synthesized output. Single characters are
// typed literally, so "A" means Shift+a. Any other printable character
// ("é", "€") becomes a keyless literal.
func Target(name string) (Symbol, error) {
	if r, ok := single(name); ok {
		code, shift, _ := ForChar(r)
		return Symbol{Kind: KindLiteral, Code: code, Shift: shift, Name: name}, nil
	}
	if s, ok := byName[name]; ok {
		return s, nil
	}
	return Symbol{}, fmt.Errorf("%w: key %q", ErrUnsupportedSymbol, name)
}

// NameOf returns the canonical name of a code, or "" if it has none.
func NameOf(code evdev.EvCode) string {
	return byCode[code]
}

// ForChar finds the key producing a character and whether Shift is needed.
func ForChar(char rune) (code evdev.EvCode, shift bool, ok bool) {
	switch {
	case char >= 'a' && char <= 'z':
		return letterCodes[char-'a'], false, true
	case char >= 'A' && char <= 'Z':
		return letterCodes[char-'A'], true, true
	case char >= '0' && char <= '9':
		return digitCodes[char-'0'], false, true
	}
	switch char {
	case ' ':
		return evdev.KEY_SPACE, false, true
	case '\n':
		return evdev.KEY_ENTER, false, true
	case '\t':
		return evdev.KEY_TAB, false, true
	}
	for _, s := range symbolChars {
		if s.base == char {
			return s.code, false, true
		}
		if s.shifted == char {
			return s.code, true, true
		}
	}
	return 0, false, false
}

// single reports the only rune of a one-character printable string.
func single(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !(unicode.IsPrint(r) || r == '\t' || r == '\n') {
		return 0, false
	}
	return r, true
}
