package telegram

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Session records which export directory the CLI was authorised against.
type Session struct {
	ExportsDir string    `yaml:"exports_dir"`
	APIID      int       `yaml:"api_id"`
	CreatedAt  time.Time `yaml:"created_at"`
}

func SessionPath(name string) string {
	return name + ".session"
}

func LoadSession(name string) (*Session, error) {
	data, err := os.ReadFile(SessionPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, SessionPath(name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if session.ExportsDir == "" {
		return nil, fmt.Errorf("session %s has no exports directory", SessionPath(name))
	}

	return &session, nil
}

// Login checks that the exports directory is readable and writes the session
// file for later fetch runs.
func Login(name string, apiID int, exportsDir string) (*Session, error) {
	if _, err := NewExportSource(exportsDir); err != nil {
		return nil, err
	}

	session := &Session{
		ExportsDir: exportsDir,
		APIID:      apiID,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	data, err := yaml.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(SessionPath(name), data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write session: %w", err)
	}

	return session, nil
}
