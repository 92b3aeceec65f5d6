// Package hotkey предоставляет глобальные горячие клавиши.
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"
)

// Modifier представляет модификатор клавиши.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super" // Win/Cmd
)

// Key представляет клавишу.
type Key string

const (
	KeySpace  Key = "space"
	KeyReturn Key = "return"
	KeyTab    Key = "tab"
)

// Combo - сочетание модификаторов и клавиши.
type Combo struct {
	Modifiers []Modifier
	Key       Key
}

// String возвращает строковое представление сочетания ("ctrl+super+space").
func (c Combo) String() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	for _, m := range c.Modifiers {
		parts = append(parts, string(m))
	}
	return strings.Join(append(parts, string(c.Key)), "+")
}

// ErrAlreadyRegistered - обработчик уже держит регистрацию.
var ErrAlreadyRegistered = errors.New("hotkey is already registered")

// debounceInterval - защита от key repeat.
const debounceInterval = 300 * time.Millisecond

// binding - то, что нужно от golang.design/x/hotkey.Hotkey.
type binding interface {
	Register() error
	Unregister() error
	Keydown() <-chan hotkey.Event
}

// Handler обрабатывает события горячей клавиши.
type Handler struct {
	mu      sync.Mutex
	bind    binding
	onPress func()
	stopCh  chan struct{}

	newBinding func(mods []hotkey.Modifier, key hotkey.Key) binding
}

// New создаёт обработчик горячей клавиши.
func New(onPress func()) *Handler {
	return &Handler{
		onPress: onPress,
		newBinding: func(mods []hotkey.Modifier, key hotkey.Key) binding {
			return hotkey.New(mods, key)
		},
	}
}

// Register регистрирует горячую клавишу. Повторная регистрация без
// Unregister возвращает ErrAlreadyRegistered.
func (h *Handler) Register(c Combo) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bind != nil {
		return ErrAlreadyRegistered
	}

	// Конвертируем модификаторы
	mods := make([]hotkey.Modifier, 0, len(c.Modifiers))
	for _, m := range c.Modifiers {
		mod, ok := modifierMap[m]
		if !ok {
			return fmt.Errorf("hotkey %s: unknown modifier %q", c, m)
		}
		mods = append(mods, mod)
	}

	// Конвертируем клавишу
	key, ok := keyMap[c.Key]
	if !ok {
		return fmt.Errorf("hotkey %s: unknown key %q", c, c.Key)
	}

	bind := h.newBinding(mods, key)
	if err := bind.Register(); err != nil {
		return fmt.Errorf("hotkey %s: %w", c, err)
	}

	h.bind = bind
	h.stopCh = make(chan struct{})
	slog.Info("hotkey registered", "combo", c.String())

	go h.listen(bind, h.stopCh)
	return nil
}

func (h *Handler) listen(bind binding, stopCh chan struct{}) {
	var lastKeydown time.Time
	for {
		select {
		case <-stopCh:
			return
		case _, ok := <-bind.Keydown():
			if !ok {
				return
			}
			// Debounce: игнорируем повторные keydown от key repeat
			now := time.Now()
			if now.Sub(lastKeydown) < debounceInterval {
				continue
			}
			lastKeydown = now
			if h.onPress != nil {
				h.onPress()
			}
		}
	}
}

// Unregister отменяет регистрацию горячей клавиши.
func (h *Handler) Unregister() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopCh != nil {
		close(h.stopCh)
		h.stopCh = nil
	}

	if h.bind != nil {
		err := h.bind.Unregister()
		h.bind = nil
		return err
	}
	return nil
}

// RunOnMainThread запускает функцию в главном потоке (требование для macOS).
func RunOnMainThread(fn func()) {
	mainthread.Init(fn)
}

// modifierMap определён в platform-specific файлах:
// - modifiers_linux.go
// - modifiers_darwin.go
// - modifiers_windows.go

// keyMap маппинг Key -> hotkey.Key
var keyMap = map[Key]hotkey.Key{
	KeySpace:  hotkey.KeySpace,
	KeyReturn: hotkey.KeyReturn,
	KeyTab:    hotkey.KeyTab,
}
