// Package embedded содержит встроенные ресурсы приложения.
package embedded

import (
	_ "embed"
)

//go:generate go run ../scripts/generate_icons.go .

// Icon - иконка в трее (синий микрофон).
//
//go:embed icon.png
var Icon []byte
