// Package i18n provides internationalization support.
package i18n

import "sync"

// Language represents a UI language.
type Language string

const (
	ES Language = "es"
	EN Language = "en"
)

var (
	mu      sync.RWMutex
	current = ES // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	ES: {
		// App
		"app_name":    "Antigravity Voice",
		"app_tooltip": "Antigravity Voice - dictado por voz",

		// Tray menu
		"tray_show":      "Mostrar",
		"tray_show_hint": "Mostrar la ventana principal",
		"tray_quit":      "Salir",
		"tray_quit_hint": "Cerrar la aplicación",

		// Main window
		"window_idle":       "Listo",
		"window_idle_hint":  "Pulsa Ctrl+Super+Espacio para dictar",
		"window_dictating":  "Dictando...",
		"window_connecting": "Esperando a la interfaz",

		// Notifications
		"notify_ready": "Antigravity Voice está listo",

		// Errors
		"error_setup":  "No se pudo iniciar la aplicación",
		"error_hotkey": "No se pudo registrar el atajo global",
	},

	EN: {
		// App
		"app_name":    "Antigravity Voice",
		"app_tooltip": "Antigravity Voice - voice dictation",

		// Tray menu
		"tray_show":      "Show",
		"tray_show_hint": "Show the main window",
		"tray_quit":      "Quit",
		"tray_quit_hint": "Close application",

		// Main window
		"window_idle":       "Ready",
		"window_idle_hint":  "Press Ctrl+Super+Space to dictate",
		"window_dictating":  "Dictating...",
		"window_connecting": "Waiting for the interface",

		// Notifications
		"notify_ready": "Antigravity Voice is ready",

		// Errors
		"error_setup":  "Could not start the application",
		"error_hotkey": "Could not register the global shortcut",
	},
}

// T returns the translation for the given key.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if strings, ok := translations[current]; ok {
		if s, ok := strings[key]; ok {
			return s
		}
	}
	// Fallback to key itself
	return key
}

// SetLanguage sets the current UI language. Unknown languages are ignored
// and reported as false.
func SetLanguage(lang Language) bool {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := translations[lang]; !ok {
		return false
	}
	current = lang
	return true
}

// GetLanguage returns the current UI language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// AvailableLanguages returns list of supported languages.
func AvailableLanguages() []Language {
	return []Language{ES, EN}
}
