// Package config предоставляет конфигурацию приложения: значения по умолчанию,
// TOML-файл, переменные окружения ANTIGRAVITY_* и флаги командной строки.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

const (
	// AppName - имя каталога конфигурации и бинарника.
	AppName = "antigravity-voice"
	// EnvPrefix - префикс переменных окружения (ANTIGRAVITY_BRIDGE_ADDR и т.д.).
	EnvPrefix = "ANTIGRAVITY"
	// FileName - имя файла конфигурации без расширения.
	FileName = "config"
)

// BridgeConfig хранит настройки локального WebSocket моста к UI.
type BridgeConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// TimingConfig хранит задержки ввода. Подобраны эмпирически под задержку
// очереди событий ОС между записью в буфер обмена и доставкой Ctrl+V.
type TimingConfig struct {
	PasteSettle  time.Duration `mapstructure:"paste_settle"`
	CopyPasteGap time.Duration `mapstructure:"copy_paste_gap"`
	TypeDelay    time.Duration `mapstructure:"type_delay"`
}

// UIConfig хранит настройки интерфейса.
type UIConfig struct {
	Language      string `mapstructure:"language"`
	Notifications bool   `mapstructure:"notifications"`
}

// LogConfig хранит настройки логирования.
type LogConfig struct {
	Format string `mapstructure:"format"`
	Level  string `mapstructure:"level"`
}

// Config хранит настройки приложения.
type Config struct {
	Bridge BridgeConfig `mapstructure:"bridge"`
	Timing TimingConfig `mapstructure:"timing"`
	UI     UIConfig     `mapstructure:"ui"`
	Log    LogConfig    `mapstructure:"log"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	return Config{
		Bridge: BridgeConfig{
			Addr:           "127.0.0.1:47631",
			AllowedOrigins: []string{"tauri://localhost", "http://localhost:1420"},
		},
		Timing: TimingConfig{
			PasteSettle:  50 * time.Millisecond,
			CopyPasteGap: 100 * time.Millisecond,
			TypeDelay:    10 * time.Millisecond,
		},
		UI: UIConfig{
			Language:      "es",
			Notifications: true,
		},
		Log: LogConfig{
			Format: "auto",
			Level:  "info",
		},
	}
}

// SetDefaults регистрирует значения по умолчанию в viper. Без них
// AutomaticEnv не видит вложенные ключи.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("bridge.addr", d.Bridge.Addr)
	v.SetDefault("bridge.allowed_origins", d.Bridge.AllowedOrigins)
	v.SetDefault("timing.paste_settle", d.Timing.PasteSettle)
	v.SetDefault("timing.copy_paste_gap", d.Timing.CopyPasteGap)
	v.SetDefault("timing.type_delay", d.Timing.TypeDelay)
	v.SetDefault("ui.language", d.UI.Language)
	v.SetDefault("ui.notifications", d.UI.Notifications)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.level", d.Log.Level)
}

// Dir возвращает каталог конфигурации пользователя.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath возвращает путь к файлу конфигурации по умолчанию.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName+".toml"), nil
}

// Bind подключает к viper значения по умолчанию, файл конфигурации и
// переменные окружения.
//
// Приоритет (от низшего к высшему): defaults → файл → ANTIGRAVITY_* → флаги.
// Флаги привязывает вызывающий код через BindPFlag.
func Bind(v *viper.Viper, path string) error {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("toml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// Load собирает Config из viper и проверяет значения.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет конфигурацию.
func (c *Config) Validate() error {
	if c.Bridge.Addr == "" {
		return errors.New("config: bridge.addr is empty")
	}
	delays := map[string]time.Duration{
		"timing.paste_settle":   c.Timing.PasteSettle,
		"timing.copy_paste_gap": c.Timing.CopyPasteGap,
		"timing.type_delay":     c.Timing.TypeDelay,
	}
	for key, d := range delays {
		if d < 0 {
			return fmt.Errorf("config: %s must not be negative, got %s", key, d)
		}
	}
	return nil
}

// fileData - представление файла на диске. Длительности хранятся строками
// ("50ms"), viper разбирает их обратно в time.Duration.
type fileData struct {
	Bridge struct {
		Addr           string   `toml:"addr"`
		AllowedOrigins []string `toml:"allowed_origins"`
	} `toml:"bridge"`
	Timing struct {
		PasteSettle  string `toml:"paste_settle"`
		CopyPasteGap string `toml:"copy_paste_gap"`
		TypeDelay    string `toml:"type_delay"`
	} `toml:"timing"`
	UI struct {
		Language      string `toml:"language"`
		Notifications bool   `toml:"notifications"`
	} `toml:"ui"`
	Log struct {
		Format string `toml:"format"`
		Level  string `toml:"level"`
	} `toml:"log"`
}

// ErrExists возвращается Write, если файл уже есть и force не задан.
var ErrExists = errors.New("config file already exists")

// Write сохраняет конфигурацию в TOML-файл.
func Write(path string, cfg Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}

	var fd fileData
	fd.Bridge.Addr = cfg.Bridge.Addr
	fd.Bridge.AllowedOrigins = cfg.Bridge.AllowedOrigins
	fd.Timing.PasteSettle = cfg.Timing.PasteSettle.String()
	fd.Timing.CopyPasteGap = cfg.Timing.CopyPasteGap.String()
	fd.Timing.TypeDelay = cfg.Timing.TypeDelay.String()
	fd.UI.Language = cfg.UI.Language
	fd.UI.Notifications = cfg.UI.Notifications
	fd.Log.Format = cfg.Log.Format
	fd.Log.Level = cfg.Log.Level

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(fd); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
