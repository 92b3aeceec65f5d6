// Package app содержит основную логику приложения.
package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"antigravity-voice/internal/bridge"
	"antigravity-voice/internal/clipboard"
	"antigravity-voice/internal/commands"
	"antigravity-voice/internal/config"
	"antigravity-voice/internal/events"
	"antigravity-voice/internal/hotkey"
	"antigravity-voice/internal/i18n"
	"antigravity-voice/internal/input"
	"antigravity-voice/internal/notify"
	"antigravity-voice/internal/tray"
	"antigravity-voice/internal/window"
)

// Этапы запуска для SetupError.
const (
	StageKeyboard = "keyboard"
	StageTray     = "tray"
	StageHotkey   = "hotkey"
	StageBridge   = "bridge"
	StageSession  = "session"
)

// SetupError - фатальная ошибка запуска.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string { return "setup " + e.Stage + ": " + e.Err.Error() }
func (e *SetupError) Unwrap() error { return e.Err }

// trayRunner - цикл событий трея (tray.Tray).
type trayRunner interface {
	Run(onReady func()) error
	Quit()
}

// shortcut - глобальная горячая клавиша (hotkey.Shortcut).
type shortcut interface {
	Register() error
	Unregister() error
}

// bridgeServer - мост к UI слою (bridge.Server).
type bridgeServer interface {
	Listen(addr string) error
	Addr() string
	Token() string
	Close(ctx context.Context) error
}

type readyNotifier interface {
	Ready()
}

// App представляет главное приложение.
type App struct {
	mu       sync.Mutex
	config   *config.Config
	bus      *events.Bus
	window   *window.Window
	commands *commands.Service
	notifier readyNotifier
	tray     trayRunner
	shortcut shortcut
	bridge   bridgeServer
	setupErr error

	writeSession func(bridge.Session) error
}

// New создаёт приложение: язык, буфер обмена, клавиатура, шина событий,
// окно, уведомления, трей. Горячая клавиша и мост регистрируются в Run.
func New(cfg *config.Config) (*App, error) {
	// Инициализируем язык интерфейса из конфига
	if !i18n.SetLanguage(i18n.Language(cfg.UI.Language)) {
		slog.Warn("unknown ui language, using default",
			"language", cfg.UI.Language, "default", i18n.GetLanguage())
	}

	clip := clipboard.New()

	keyboard, err := input.New()
	if err != nil {
		return nil, &SetupError{Stage: StageKeyboard, Err: err}
	}
	slog.Info("keyboard backend selected", "backend", keyboard.Name())

	bus := events.NewBus()
	win := window.New(bus)

	svc := commands.New(clip, keyboard, commands.WithTimings(commands.Timings{
		PasteSettle:  cfg.Timing.PasteSettle,
		CopyPasteGap: cfg.Timing.CopyPasteGap,
		TypeDelay:    cfg.Timing.TypeDelay,
	}))
	slog.Debug("paste chord resolved", "chord", svc.PasteChord().String())

	a := &App{
		config:   cfg,
		bus:      bus,
		window:   win,
		commands: svc,
		notifier: notify.New(cfg.UI.Notifications),
		tray:     tray.New(win, os.Exit),
		shortcut: hotkey.NewShortcut(win),
		bridge:   bridge.NewServer(svc, bus, cfg.Bridge.AllowedOrigins),

		writeSession: writeSessionFile,
	}
	return a, nil
}

// writeSessionFile сохраняет адрес и токен моста для локальных клиентов.
func writeSessionFile(s bridge.Session) error {
	path, err := bridge.SessionPath()
	if err != nil {
		return err
	}
	if err := bridge.WriteSession(path, s); err != nil {
		return err
	}
	slog.Debug("bridge session written", "path", path)
	return nil
}

// Run запускает цикл событий трея. Блокирующая функция: возвращается только
// при ошибке запуска, выход через меню завершает процесс.
func (a *App) Run() error {
	if err := a.tray.Run(a.onReady); err != nil {
		return &SetupError{Stage: StageTray, Err: err}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.setupErr
}

// onReady выполняется после построения иконки и меню.
func (a *App) onReady() {
	if err := a.setup(); err != nil {
		a.mu.Lock()
		a.setupErr = err
		a.mu.Unlock()
		a.tray.Quit()
		return
	}
	slog.Info("application ready", "hotkey", hotkey.DictationCombo.String(), "bridge", a.bridge.Addr())
	a.notifier.Ready()
}

func (a *App) setup() error {
	if err := a.shortcut.Register(); err != nil {
		return &SetupError{Stage: StageHotkey, Err: err}
	}

	if err := a.bridge.Listen(a.config.Bridge.Addr); err != nil {
		if uerr := a.shortcut.Unregister(); uerr != nil {
			slog.Warn("hotkey unregister failed", "err", uerr)
		}
		return &SetupError{Stage: StageBridge, Err: err}
	}

	session := bridge.Session{Addr: a.bridge.Addr(), Token: a.bridge.Token()}
	if err := a.writeSession(session); err != nil {
		a.shutdown()
		return &SetupError{Stage: StageSession, Err: err}
	}
	return nil
}

// shutdown освобождает то, что успела занять setup.
func (a *App) shutdown() {
	if err := a.shortcut.Unregister(); err != nil {
		slog.Warn("hotkey unregister failed", "err", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.bridge.Close(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		slog.Warn("bridge close failed", "err", err)
	}
}
