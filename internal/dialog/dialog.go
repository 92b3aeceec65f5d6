// Package dialog предоставляет GUI диалоги приложения.
package dialog

import (
	"log/slog"

	"github.com/ncruces/zenity"
)

// ShowError показывает модальное сообщение об ошибке. Используется для
// фатальных ошибок запуска, когда трея ещё нет.
func ShowError(title, message string) {
	if err := zenity.Error(message, zenity.Title(title), zenity.ErrorIcon); err != nil {
		slog.Debug("error dialog failed", "err", err)
	}
}
