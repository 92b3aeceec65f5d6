package bridge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"antigravity-voice/internal/config"
)

// Session tells local clients where the running bridge listens.
type Session struct {
	Addr  string `json:"addr"`
	Token string `json:"token"`
}

// SessionPath returns the path of the session file in the user config dir.
func SessionPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bridge.json"), nil
}

// WriteSession stores s at path, readable by the current user only.
func WriteSession(path string, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ReadSession loads the session file at path.
func ReadSession(path string) (Session, error) {
	var s Session
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("bridge session: %w (is the app running?)", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("bridge session %s: %w", path, err)
	}
	return s, nil
}
