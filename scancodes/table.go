package scancodes

import "github.com/holoplot/go-evdev"

// Codes lifted from linux/input-event-codes.h via go-evdev.
//     https://www.kernel.org/doc/html/latest/input/event-codes.html

// Named keys. The first name listed for a code is its canonical name.
var keyNames = []struct {
	name string
	code evdev.EvCode
}{
	{"Escape", evdev.KEY_ESC},
	{"Esc", evdev.KEY_ESC},
	{"Backspace", evdev.KEY_BACKSPACE},
	{"Tab", evdev.KEY_TAB},
	{"Enter", evdev.KEY_ENTER},
	{"Return", evdev.KEY_ENTER},
	{"Space", evdev.KEY_SPACE},
	{"CapsLock", evdev.KEY_CAPSLOCK},
	{"NumLock", evdev.KEY_NUMLOCK},
	{"ScrollLock", evdev.KEY_SCROLLLOCK},

	{"LShift", evdev.KEY_LEFTSHIFT},
	{"Shift", evdev.KEY_LEFTSHIFT},
	{"RShift", evdev.KEY_RIGHTSHIFT},
	{"LControl", evdev.KEY_LEFTCTRL},
	{"Control", evdev.KEY_LEFTCTRL},
	{"Ctrl", evdev.KEY_LEFTCTRL},
	{"RControl", evdev.KEY_RIGHTCTRL},
	{"LAlt", evdev.KEY_LEFTALT},
	{"Alt", evdev.KEY_LEFTALT},
	{"LOption", evdev.KEY_LEFTALT},
	{"RAlt", evdev.KEY_RIGHTALT},
	{"ROption", evdev.KEY_RIGHTALT},
	{"Meta", evdev.KEY_LEFTMETA},
	{"LMeta", evdev.KEY_LEFTMETA},
	{"Command", evdev.KEY_LEFTMETA},
	{"Super", evdev.KEY_LEFTMETA},
	{"Windows", evdev.KEY_LEFTMETA},
	{"RMeta", evdev.KEY_RIGHTMETA},
	{"RCommand", evdev.KEY_RIGHTMETA},
	{"Menu", evdev.KEY_COMPOSE},

	{"Up", evdev.KEY_UP},
	{"UpArrow", evdev.KEY_UP},
	{"Down", evdev.KEY_DOWN},
	{"DownArrow", evdev.KEY_DOWN},
	{"Left", evdev.KEY_LEFT},
	{"LeftArrow", evdev.KEY_LEFT},
	{"Right", evdev.KEY_RIGHT},
	{"RightArrow", evdev.KEY_RIGHT},
	{"Home", evdev.KEY_HOME},
	{"End", evdev.KEY_END},
	{"PageUp", evdev.KEY_PAGEUP},
	{"PageDown", evdev.KEY_PAGEDOWN},
	{"Insert", evdev.KEY_INSERT},
	{"Delete", evdev.KEY_DELETE},
	{"Help", evdev.KEY_HELP},
	{"PrintScreen", evdev.KEY_SYSRQ},
	{"Pause", evdev.KEY_PAUSE},

	{"F1", evdev.KEY_F1}, {"F2", evdev.KEY_F2}, {"F3", evdev.KEY_F3},
	{"F4", evdev.KEY_F4}, {"F5", evdev.KEY_F5}, {"F6", evdev.KEY_F6},
	{"F7", evdev.KEY_F7}, {"F8", evdev.KEY_F8}, {"F9", evdev.KEY_F9},
	{"F10", evdev.KEY_F10}, {"F11", evdev.KEY_F11}, {"F12", evdev.KEY_F12},
	{"F13", evdev.KEY_F13}, {"F14", evdev.KEY_F14}, {"F15", evdev.KEY_F15},
	{"F16", evdev.KEY_F16}, {"F17", evdev.KEY_F17}, {"F18", evdev.KEY_F18},
	{"F19", evdev.KEY_F19}, {"F20", evdev.KEY_F20},

	{"Key0", evdev.KEY_0}, {"Key1", evdev.KEY_1}, {"Key2", evdev.KEY_2},
	{"Key3", evdev.KEY_3}, {"Key4", evdev.KEY_4}, {"Key5", evdev.KEY_5},
	{"Key6", evdev.KEY_6}, {"Key7", evdev.KEY_7}, {"Key8", evdev.KEY_8},
	{"Key9", evdev.KEY_9},

	{"Numpad0", evdev.KEY_KP0}, {"Numpad1", evdev.KEY_KP1},
	{"Numpad2", evdev.KEY_KP2}, {"Numpad3", evdev.KEY_KP3},
	{"Numpad4", evdev.KEY_KP4}, {"Numpad5", evdev.KEY_KP5},
	{"Numpad6", evdev.KEY_KP6}, {"Numpad7", evdev.KEY_KP7},
	{"Numpad8", evdev.KEY_KP8}, {"Numpad9", evdev.KEY_KP9},
	{"NumpadAdd", evdev.KEY_KPPLUS},
	{"NumpadSubtract", evdev.KEY_KPMINUS},
	{"NumpadMultiply", evdev.KEY_KPASTERISK},
	{"NumpadDivide", evdev.KEY_KPSLASH},
	{"NumpadDecimal", evdev.KEY_KPDOT},
	{"NumpadEnter", evdev.KEY_KPENTER},

	{"Minus", evdev.KEY_MINUS},
	{"Equal", evdev.KEY_EQUAL},
	{"LeftBracket", evdev.KEY_LEFTBRACE},
	{"RightBracket", evdev.KEY_RIGHTBRACE},
	{"Semicolon", evdev.KEY_SEMICOLON},
	{"Apostrophe", evdev.KEY_APOSTROPHE},
	{"Grave", evdev.KEY_GRAVE},
	{"BackSlash", evdev.KEY_BACKSLASH},
	{"Comma", evdev.KEY_COMMA},
	{"Dot", evdev.KEY_DOT},
	{"Slash", evdev.KEY_SLASH},

	{"MediaNextTrack", evdev.KEY_NEXTSONG},
	{"MediaPlayPause", evdev.KEY_PLAYPAUSE},
	{"MediaPrevTrack", evdev.KEY_PREVIOUSSONG},
	{"MediaStop", evdev.KEY_STOPCD},
	{"VolumeUp", evdev.KEY_VOLUMEUP},
	{"VolumeDown", evdev.KEY_VOLUMEDOWN},
	{"VolumeMute", evdev.KEY_MUTE},
}

// Mouse buttons live in the same EV_KEY code space as keys.
var buttonNames = []struct {
	name string
	code evdev.EvCode
}{
	{"MouseLeft", evdev.BTN_LEFT},
	{"MouseRight", evdev.BTN_RIGHT},
	{"MouseMiddle", evdev.BTN_MIDDLE},
	{"MouseBack", evdev.BTN_SIDE},
	{"MouseForward", evdev.BTN_EXTRA},
}

// Letters, US layout. Index is the offset from 'a'.
var letterCodes = [26]evdev.EvCode{
	evdev.KEY_A, evdev.KEY_B, evdev.KEY_C, evdev.KEY_D, evdev.KEY_E,
	evdev.KEY_F, evdev.KEY_G, evdev.KEY_H, evdev.KEY_I, evdev.KEY_J,
	evdev.KEY_K, evdev.KEY_L, evdev.KEY_M, evdev.KEY_N, evdev.KEY_O,
	evdev.KEY_P, evdev.KEY_Q, evdev.KEY_R, evdev.KEY_S, evdev.KEY_T,
	evdev.KEY_U, evdev.KEY_V, evdev.KEY_W, evdev.KEY_X, evdev.KEY_Y,
	evdev.KEY_Z,
}

// Digits of the top row. Index is the digit.
var digitCodes = [10]evdev.EvCode{
	evdev.KEY_0, evdev.KEY_1, evdev.KEY_2, evdev.KEY_3, evdev.KEY_4,
	evdev.KEY_5, evdev.KEY_6, evdev.KEY_7, evdev.KEY_8, evdev.KEY_9,
}

// Unshifted and shifted characters of the remaining printable keys.
var symbolChars = []struct {
	base, shifted rune
	code          evdev.EvCode
}{
	{'1', '!', evdev.KEY_1},
	{'2', '@', evdev.KEY_2},
	{'3', '#', evdev.KEY_3},
	{'4', '$', evdev.KEY_4},
	{'5', '%', evdev.KEY_5},
	{'6', '^', evdev.KEY_6},
	{'7', '&', evdev.KEY_7},
	{'8', '*', evdev.KEY_8},
	{'9', '(', evdev.KEY_9},
	{'0', ')', evdev.KEY_0},
	{'-', '_', evdev.KEY_MINUS},
	{'=', '+', evdev.KEY_EQUAL},
	{'[', '{', evdev.KEY_LEFTBRACE},
	{']', '}', evdev.KEY_RIGHTBRACE},
	{';', ':', evdev.KEY_SEMICOLON},
	{'\'', '"', evdev.KEY_APOSTROPHE},
	{'`', '~', evdev.KEY_GRAVE},
	{'\\', '|', evdev.KEY_BACKSLASH},
	{',', '<', evdev.KEY_COMMA},
	{'.', '>', evdev.KEY_DOT},
	{'/', '?', evdev.KEY_SLASH},
}

var (
	byName = make(map[string]Symbol, len(keyNames)+len(buttonNames)+len(letterCodes))
	byCode = make(map[evdev.EvCode]string, len(keyNames)+len(buttonNames)+len(letterCodes))
)

func init() {
	add := func(name string, code evdev.EvCode, kind Kind) {
		byName[name] = Symbol{Kind: kind, Code: code, Name: name}
		if _, ok := byCode[code]; !ok {
			byCode[code] = name
		}
	}
	for _, k := range keyNames {
		add(k.name, k.code, KindKey)
	}
	for _, b := range buttonNames {
		add(b.name, b.code, KindButton)
	}
	for i, code := range letterCodes {
		add(string(rune('A'+i)), code, KindKey)
	}
	for i, code := range digitCodes {
		add(string(rune('0'+i)), code, KindKey)
	}
}
