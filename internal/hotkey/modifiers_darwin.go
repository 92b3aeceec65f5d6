//go:build darwin

package hotkey

import "golang.design/x/hotkey"

// modifierMap маппинг Modifier -> hotkey.Modifier для macOS
var modifierMap = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.ModOption,
	ModSuper: hotkey.ModCmd,
}
