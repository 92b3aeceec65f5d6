package hotkey

import "antigravity-voice/internal/events"

// DictationCombo - глобальное сочетание для начала диктовки. Не настраивается.
var DictationCombo = Combo{
	Modifiers: []Modifier{ModCtrl, ModSuper},
	Key:       KeySpace,
}

// Target - окно, которое показывает сочетание, и его канал сообщений.
type Target interface {
	Show()
	Focus()
	Emit(name string) int
}

// Shortcut привязывает DictationCombo к показу окна и событию start-dictation.
type Shortcut struct {
	target  Target
	handler *Handler
}

// NewShortcut создаёт Shortcut для окна target.
func NewShortcut(target Target) *Shortcut {
	s := &Shortcut{target: target}
	s.handler = New(s.Activate)
	return s
}

// Register регистрирует сочетание в ОС. Ошибка (например, сочетание занято
// другим приложением) фатальна для запуска.
func (s *Shortcut) Register() error {
	return s.handler.Register(DictationCombo)
}

// Activate показывает окно, переводит на него фокус и отправляет
// start-dictation ровно один раз.
func (s *Shortcut) Activate() {
	s.target.Show()
	s.target.Focus()
	s.target.Emit(events.StartDictation)
}

// Unregister снимает регистрацию.
func (s *Shortcut) Unregister() error {
	return s.handler.Unregister()
}
