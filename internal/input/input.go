// Package input предоставляет синтетический ввод с клавиатуры: аккорды
// (Ctrl+V / Cmd+V) и посимвольный ввод текста в активное поле.
package input

import (
	"errors"
	"strings"
	"unicode"
)

// Modifier - клавиша-модификатор аккорда.
type Modifier int

const (
	ModControl Modifier = iota
	ModMeta             // Cmd на macOS, Win/Super на остальных
)

func (m Modifier) String() string {
	switch m {
	case ModControl:
		return "Control"
	case ModMeta:
		return "Meta"
	default:
		return "Unknown"
	}
}

// Chord - модификатор плюс одна клавиша.
type Chord struct {
	Modifier Modifier
	Key      rune
}

func (c Chord) String() string {
	return c.Modifier.String() + "+" + strings.ToUpper(string(c.Key))
}

// pasteChords - аккорд вставки по runtime.GOOS. Всё, чего нет в таблице,
// использует defaultPasteChord.
var pasteChords = map[string]Chord{
	"darwin": {Modifier: ModMeta, Key: 'v'},
	"ios":    {Modifier: ModMeta, Key: 'v'},
}

var defaultPasteChord = Chord{Modifier: ModControl, Key: 'v'}

// PasteChordFor возвращает аккорд вставки для платформы goos.
func PasteChordFor(goos string) Chord {
	if c, ok := pasteChords[goos]; ok {
		return c
	}
	return defaultPasteChord
}

var (
	// ErrPermission - ОС запрещает синтетический ввод (Accessibility на macOS,
	// песочница и т.п.).
	ErrPermission = errors.New("synthetic input is not permitted")
	// ErrUnavailable - нет дисплея или утилиты для ввода.
	ErrUnavailable = errors.New("synthetic input is not available")
)

// InjectionError возвращается при любой ошибке синтеза нажатий.
type InjectionError struct {
	Op  string // "chord" или "type"
	Err error
}

func (e *InjectionError) Error() string { return "input " + e.Op + ": " + e.Err.Error() }
func (e *InjectionError) Unwrap() error { return e.Err }

// Keyboard синтезирует нажатия клавиш.
type Keyboard interface {
	// Name возвращает название бэкенда.
	Name() string
	// Chord нажимает и отпускает аккорд.
	Chord(c Chord) error
	// TypeRune вводит один символ.
	TypeRune(r rune) error
}

// New создаёт платформо-специфичную Keyboard. Ошибка означает, что
// платформа не поддерживается вовсе; отсутствие прав или дисплея
// проявляется при вызовах.
func New() (Keyboard, error) {
	return newKeyboard()
}

// unavailableKeyboard отклоняет любой ввод.
type unavailableKeyboard struct {
	cause error
}

func (unavailableKeyboard) Name() string { return "none" }

func (k unavailableKeyboard) Chord(Chord) error {
	return &InjectionError{Op: "chord", Err: k.err()}
}

func (k unavailableKeyboard) TypeRune(rune) error {
	return &InjectionError{Op: "type", Err: k.err()}
}

func (k unavailableKeyboard) err() error {
	if k.cause == nil {
		return ErrUnavailable
	}
	return errors.Join(ErrUnavailable, k.cause)
}

// keyName возвращает имя клавиши аккорда в нижнем регистре ("v").
func keyName(r rune) string {
	return string(unicode.ToLower(r))
}
