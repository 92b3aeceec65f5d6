// Package window provides the main application window: a small status
// surface whose visibility and focus are driven by the tray and the hotkey.
package window

import (
	"image/color"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/font"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"antigravity-voice/internal/events"
	"antigravity-voice/internal/i18n"
)

var (
	colorBG     = color.NRGBA{R: 30, G: 30, B: 34, A: 255}
	colorText   = color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	colorDim    = color.NRGBA{R: 140, G: 140, B: 150, A: 255}
	colorAccent = color.NRGBA{R: 88, G: 166, B: 255, A: 255}
)

// Emitter is the message channel towards the UI layer.
type Emitter interface {
	Emit(name string) int
}

// Window is the main window. The zero state is hidden.
type Window struct {
	mu        sync.Mutex
	emitter   Emitter
	window    *app.Window
	running   bool
	dictating bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// New creates a hidden window that emits events through emitter.
func New(emitter Emitter) *Window {
	return &Window{emitter: emitter}
}

// Show opens the window if it is hidden.
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.window = new(app.Window)
	w.window.Option(
		app.Title(i18n.T("app_name")),
		app.Size(unit.Dp(320), unit.Dp(140)),
		app.MinSize(unit.Dp(320), unit.Dp(140)),
	)

	go w.runEventLoop(w.window, w.stopCh, w.doneCh)
}

// Focus brings the window to the foreground. It has no effect while hidden.
func (w *Window) Focus() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running && w.window != nil {
		w.window.Perform(system.ActionRaise)
	}
}

// Hide closes the window. The application keeps running in the tray.
func (w *Window) Hide() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh := w.stopCh
	doneCh := w.doneCh
	w.stopCh = nil
	w.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}

	if doneCh != nil {
		select {
		case <-doneCh:
		case <-time.After(time.Second):
		}
	}
}

// Visible reports whether the window is shown.
func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Emit sends name to the UI layer. It is fire-and-forget: the result only
// says how many listeners were reached.
func (w *Window) Emit(name string) int {
	w.mu.Lock()
	if name == events.StartDictation {
		w.dictating = true
	}
	win := w.window
	running := w.running
	w.mu.Unlock()

	if running && win != nil {
		win.Invalidate()
	}
	return w.emitter.Emit(name)
}

func (w *Window) runEventLoop(win *app.Window, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	destroyed := make(chan struct{})
	defer close(destroyed)
	go func() {
		select {
		case <-stopCh:
			win.Perform(system.ActionClose)
		case <-destroyed:
		}
	}()

	th := material.NewTheme()
	var ops op.Ops
	for {
		switch e := win.Event().(type) {
		case app.DestroyEvent:
			// Закрытие окна пользователем только скрывает его.
			w.mu.Lock()
			if w.window == win {
				w.running = false
				w.dictating = false
			}
			w.mu.Unlock()
			return
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			w.draw(gtx, th)
			e.Frame(gtx.Ops)
		}
	}
}

func (w *Window) status() (string, string, color.NRGBA) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dictating {
		return i18n.T("window_dictating"), i18n.T("window_connecting"), colorAccent
	}
	return i18n.T("window_idle"), i18n.T("window_idle_hint"), colorText
}

func (w *Window) draw(gtx layout.Context, th *material.Theme) layout.Dimensions {
	// Escape hides the window. The app keeps running in the tray.
	for {
		event, ok := gtx.Event(key.Filter{Name: key.NameEscape})
		if !ok {
			break
		}
		if e, ok := event.(key.Event); ok && e.State == key.Press {
			go w.Hide()
			return layout.Dimensions{Size: gtx.Constraints.Max}
		}
	}

	// Fill background
	rect := clip.Rect{Max: gtx.Constraints.Max}
	paint.FillShape(gtx.Ops, colorBG, rect.Op())

	status, hint, statusColor := w.status()

	return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				lbl := material.Label(th, unit.Sp(16), status)
				lbl.Color = statusColor
				lbl.Font.Weight = font.Medium
				lbl.Alignment = text.Middle
				return lbl.Layout(gtx)
			}),

			layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),

			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				lbl := material.Label(th, unit.Sp(11), hint)
				lbl.Color = colorDim
				lbl.Alignment = text.Middle
				return lbl.Layout(gtx)
			}),
		)
	})
}
