//go:build darwin

package input

/*
#cgo LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

static int agv_trusted(void) {
    return AXIsProcessTrusted() ? 1 : 0;
}

static int agv_post(CGKeyCode key, CGEventFlags flags, const UniChar *units, int n) {
    CGEventRef down = CGEventCreateKeyboardEvent(NULL, key, true);
    CGEventRef up = CGEventCreateKeyboardEvent(NULL, key, false);
    if (down == NULL || up == NULL) {
        if (down != NULL) CFRelease(down);
        if (up != NULL) CFRelease(up);
        return -1;
    }

    if (units != NULL) {
        CGEventKeyboardSetUnicodeString(down, n, units);
        CGEventKeyboardSetUnicodeString(up, n, units);
    } else {
        CGEventSetFlags(down, flags);
        CGEventSetFlags(up, flags);
    }

    CGEventPost(kCGHIDEventTap, down);
    CGEventPost(kCGHIDEventTap, up);

    CFRelease(down);
    CFRelease(up);
    return 0;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf16"
	"unsafe"
)

// keyCodes - виртуальные коды клавиш ANSI раскладки (Events.h).
var keyCodes = map[rune]C.CGKeyCode{
	'v': 0x09,
	'c': 0x08,
	'x': 0x07,
	'a': 0x00,
}

var modifierFlags = map[Modifier]C.CGEventFlags{
	ModControl: C.kCGEventFlagMaskControl,
	ModMeta:    C.kCGEventFlagMaskCommand,
}

var errCreateEvent = errors.New("CGEventCreateKeyboardEvent failed")

type darwinKeyboard struct{}

func newKeyboard() (Keyboard, error) {
	return &darwinKeyboard{}, nil
}

func (k *darwinKeyboard) Name() string { return "CoreGraphics" }

// Без разрешения Accessibility CGEventPost молча отбрасывает события,
// поэтому проверяем его перед каждым вводом.
func (k *darwinKeyboard) trusted() error {
	if C.agv_trusted() == 0 {
		return ErrPermission
	}
	return nil
}

func (k *darwinKeyboard) Chord(c Chord) error {
	if err := k.trusted(); err != nil {
		return &InjectionError{Op: "chord", Err: err}
	}
	code, ok := keyCodes[unicode.ToLower(c.Key)]
	if !ok {
		return &InjectionError{Op: "chord", Err: fmt.Errorf("no key code for %q", c.Key)}
	}
	if C.agv_post(code, modifierFlags[c.Modifier], nil, 0) != 0 {
		return &InjectionError{Op: "chord", Err: errCreateEvent}
	}
	return nil
}

func (k *darwinKeyboard) TypeRune(r rune) error {
	if err := k.trusted(); err != nil {
		return &InjectionError{Op: "type", Err: err}
	}
	units := utf16.Encode([]rune{r})
	ptr := (*C.UniChar)(unsafe.Pointer(&units[0]))
	if C.agv_post(0, 0, ptr, C.int(len(units))) != 0 {
		return &InjectionError{Op: "type", Err: errCreateEvent}
	}
	return nil
}
