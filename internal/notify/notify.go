// Package notify предоставляет системные уведомления.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"

	"antigravity-voice/internal/i18n"
)

// send - точка отправки, подменяется в тестах.
var send = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Notifier отправляет системные уведомления.
type Notifier struct {
	enabled bool
}

// New создаёт новый Notifier.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// Ready сообщает, что приложение запущено и слушает горячую клавишу.
func (n *Notifier) Ready() {
	n.notify(i18n.T("notify_ready"))
}

func (n *Notifier) notify(message string) {
	if !n.enabled {
		return
	}
	// Ошибки уведомлений не критичны
	if err := send(i18n.T("app_name"), message); err != nil {
		slog.Debug("notification failed", "err", err)
	}
}
