//go:build linux

package input

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/go-vgo/robotgo"
)

// robotgo и wtype называют модификаторы по-разному.
var (
	x11Modifiers     = map[Modifier]string{ModControl: "ctrl", ModMeta: "cmd"}
	waylandModifiers = map[Modifier]string{ModControl: "ctrl", ModMeta: "logo"}
)

func newKeyboard() (Keyboard, error) {
	return chooseKeyboard(os.Getenv, exec.LookPath), nil
}

// chooseKeyboard выбирает бэкенд по переменным окружения сессии.
func chooseKeyboard(getenv func(string) string, lookPath func(string) (string, error)) Keyboard {
	switch {
	case getenv("WAYLAND_DISPLAY") != "":
		path, err := lookPath("wtype")
		if err != nil {
			return unavailableKeyboard{cause: err}
		}
		return &waylandKeyboard{wtype: path}
	case getenv("DISPLAY") != "":
		return &x11Keyboard{}
	default:
		return unavailableKeyboard{cause: fmt.Errorf("neither WAYLAND_DISPLAY nor DISPLAY is set")}
	}
}

type x11Keyboard struct{}

func (k *x11Keyboard) Name() string { return "X11 (robotgo)" }

func (k *x11Keyboard) Chord(c Chord) error {
	if err := robotgo.KeyTap(keyName(c.Key), x11Modifiers[c.Modifier]); err != nil {
		return &InjectionError{Op: "chord", Err: err}
	}
	return nil
}

// TypeRune не может сообщить об ошибке: robotgo.TypeStr ничего не
// возвращает, и отказ XTest на X11 не виден.
func (k *x11Keyboard) TypeRune(r rune) error {
	robotgo.TypeStr(string(r))
	return nil
}

type waylandKeyboard struct {
	wtype string
}

func (k *waylandKeyboard) Name() string { return "Wayland (wtype)" }

func (k *waylandKeyboard) Chord(c Chord) error {
	mod := waylandModifiers[c.Modifier]
	if err := k.run("-M", mod, keyName(c.Key), "-m", mod); err != nil {
		return &InjectionError{Op: "chord", Err: err}
	}
	return nil
}

func (k *waylandKeyboard) TypeRune(r rune) error {
	if err := k.run("--", string(r)); err != nil {
		return &InjectionError{Op: "type", Err: err}
	}
	return nil
}

func (k *waylandKeyboard) run(args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.Command(k.wtype, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		// Композитор без virtual-keyboard протокола отказывает в вводе.
		if strings.Contains(msg, "virtual keyboard") {
			return fmt.Errorf("%w: %s", ErrPermission, msg)
		}
		if msg != "" {
			return fmt.Errorf("wtype: %s: %w", msg, err)
		}
		return fmt.Errorf("wtype: %w", err)
	}
	return nil
}
