//go:build windows

package input

import (
	"fmt"
	"unicode"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard    = 1
	keyEventFKeyUp   = 0x0002
	keyEventFUnicode = 0x0004

	vkControl = 0x11
	vkLWin    = 0x5B
)

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type input struct {
	inputType uint32
	ki        keyboardInput
	padding   uint64
}

var modifierKeys = map[Modifier]uint16{
	ModControl: vkControl,
	ModMeta:    vkLWin,
}

type windowsKeyboard struct{}

func newKeyboard() (Keyboard, error) {
	if err := procSendInput.Find(); err != nil {
		return nil, err
	}
	return &windowsKeyboard{}, nil
}

func (k *windowsKeyboard) Name() string { return "SendInput" }

func (k *windowsKeyboard) Chord(c Chord) error {
	mod := modifierKeys[c.Modifier]
	// Для латинских букв виртуальный код совпадает с заглавной буквой.
	vk := uint16(unicode.ToUpper(c.Key))

	inputs := []input{
		{inputType: inputKeyboard, ki: keyboardInput{wVk: mod}},
		{inputType: inputKeyboard, ki: keyboardInput{wVk: vk}},
		{inputType: inputKeyboard, ki: keyboardInput{wVk: vk, dwFlags: keyEventFKeyUp}},
		{inputType: inputKeyboard, ki: keyboardInput{wVk: mod, dwFlags: keyEventFKeyUp}},
	}
	if err := send(inputs); err != nil {
		return &InjectionError{Op: "chord", Err: err}
	}
	return nil
}

func (k *windowsKeyboard) TypeRune(r rune) error {
	units := utf16.Encode([]rune{r})
	inputs := make([]input, 0, len(units)*2)
	for _, u := range units {
		// Key down
		inputs = append(inputs, input{
			inputType: inputKeyboard,
			ki:        keyboardInput{wScan: u, dwFlags: keyEventFUnicode},
		})
		// Key up
		inputs = append(inputs, input{
			inputType: inputKeyboard,
			ki:        keyboardInput{wScan: u, dwFlags: keyEventFUnicode | keyEventFKeyUp},
		})
	}
	if err := send(inputs); err != nil {
		return &InjectionError{Op: "type", Err: err}
	}
	return nil
}

// send отправляет события одним вызовом. SendInput возвращает число
// вставленных событий; меньшее значение означает блокировку UIPI.
func send(inputs []input) error {
	ret, _, callErr := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(ret) != len(inputs) {
		if callErr == windows.ERROR_ACCESS_DENIED {
			return ErrPermission
		}
		return fmt.Errorf("SendInput inserted %d of %d events: %w", ret, len(inputs), callErr)
	}
	return nil
}
