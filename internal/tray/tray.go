// Package tray предоставляет системный трей с меню.
package tray

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"fyne.io/systray"

	"antigravity-voice/embedded"
	"antigravity-voice/internal/i18n"
)

// Идентификаторы пунктов меню.
const (
	MenuShow = "show"
	MenuQuit = "quit"
)

// ErrAlreadyRunning - в процессе может быть только одна иконка трея.
var ErrAlreadyRunning = errors.New("tray is already running")

// started защищает инвариант "одна иконка на процесс".
var started atomic.Bool

// Window - главное окно, которым управляет трей.
type Window interface {
	Show()
	Focus()
}

// Tray управляет иконкой в системном трее.
type Tray struct {
	win  Window
	exit func(code int)

	mu       sync.Mutex
	quitting bool

	// taps - клики левой кнопкой по иконке. Обрабатываются тем же циклом,
	// что и пункты меню.
	taps chan struct{}
}

// New создаёт Tray. exit завершает процесс (os.Exit в приложении).
func New(win Window, exit func(code int)) *Tray {
	return &Tray{
		win:  win,
		exit: exit,
		taps: make(chan struct{}, 1),
	}
}

// Run строит иконку и меню, вызывает onReady и крутит цикл событий.
// Блокирующая функция, возвращается после Quit.
func (t *Tray) Run(onReady func()) error {
	if !started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, t.onExit)
	return nil
}

func (t *Tray) onReady() {
	systray.SetIcon(embedded.Icon)
	systray.SetTooltip(i18n.T("app_tooltip"))
	// Левый клик по иконке показывает окно, меню остаётся на правой кнопке.
	systray.SetOnTapped(t.onTapped)

	showBtn := systray.AddMenuItem(i18n.T("tray_show"), i18n.T("tray_show_hint"))
	quitBtn := systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	// Обработка событий меню
	go t.handleEvents(showBtn.ClickedCh, quitBtn.ClickedCh)
}

// onTapped вызывается systray в его собственном потоке. Повторные клики,
// пока предыдущий не обработан, склеиваются в один.
func (t *Tray) onTapped() {
	select {
	case t.taps <- struct{}{}:
	default:
	}
}

// handleEvents обрабатывает клики по одному, следующий не начнётся,
// пока не завершится предыдущий. Возвращается после quit.
func (t *Tray) handleEvents(show, quit <-chan struct{}) {
	for {
		var id string
		select {
		case <-t.taps:
			id = MenuShow
		case <-show:
			id = MenuShow
		case <-quit:
			id = MenuQuit
		}
		t.HandleMenu(id)
		if id == MenuQuit {
			return
		}
	}
}

// HandleMenu выполняет действие пункта меню id. Возвращает false, если пункт
// неизвестен или приложение уже завершается.
func (t *Tray) HandleMenu(id string) bool {
	t.mu.Lock()
	if t.quitting {
		t.mu.Unlock()
		return false
	}
	if id == MenuQuit {
		t.quitting = true
	}
	t.mu.Unlock()

	switch id {
	case MenuShow:
		t.win.Show()
		t.win.Focus()
		return true
	case MenuQuit:
		slog.Info("quit requested from tray")
		// Немедленное завершение без graceful shutdown.
		t.exit(0)
		return true
	default:
		return false
	}
}

func (t *Tray) onExit() {
	slog.Debug("tray exited")
}

// Quit закрывает системный трей, Run возвращает управление.
func (t *Tray) Quit() {
	systray.Quit()
}
