package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoActions   = errors.New("session has no actions")
	ErrNoPageAlias = errors.New("action has no page alias")
)

// Session is a named, persistable recording
type Session struct {
	Name      string            `json:"name" yaml:"name"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	Actions   []ActionInContext `json:"actions" yaml:"actions"`
}

// Validate checks that the session can be replayed or generated from
func (s *Session) Validate() error {
	if len(s.Actions) == 0 {
		return ErrNoActions
	}
	for i := range s.Actions {
		if s.Actions[i].Action == nil {
			return fmt.Errorf("action %d: %w", i, ErrUnknownAction)
		}
		if s.Actions[i].PageAlias == "" {
			return fmt.Errorf("action %d: %w", i, ErrNoPageAlias)
		}
	}
	return nil
}

// SaveToFile writes the session to a JSON or YAML file depending on the
// file extension
func (s *Session) SaveToFile(path string) error {
	var data []byte
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(s, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		return fmt.Errorf("unsupported session file type: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// LoadSession reads a session from a JSON or YAML file depending on the
// file extension
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &session)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &session)
	default:
		return nil, fmt.Errorf("unsupported session file type: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}
	return &session, nil
}
