// Package session provides the file-backed session store: per-session style
// preferences and conversation history, plus the process-wide persistent
// color-scheme preference.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonathan/chart-agent/internal/types"
)

// Store keeps all sessions in a single JSON file. Writes are last-write-wins:
// a single user session is not expected to issue overlapping requests, and
// the mutex keeps concurrent sessions from corrupting the file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the given file, creating it (and its
// parent directory) when missing.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			return nil, fmt.Errorf("failed to initialize session file: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// Get returns the session for id, or nil when it does not exist.
func (s *Store) Get(id string) (*types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load()
	if err != nil {
		return nil, err
	}
	session, ok := sessions[id]
	if !ok {
		return nil, nil
	}
	return session, nil
}

// Style returns the session's manual style preference, or empty when the
// session does not exist or has none.
func (s *Store) Style(id string) (types.ColorScheme, error) {
	session, err := s.Get(id)
	if err != nil || session == nil {
		return "", err
	}
	return session.Style, nil
}

// SetStyle sets the manual style preference, creating the session if needed.
func (s *Store) SetStyle(id string, style types.ColorScheme) error {
	return s.update(id, func(session *types.Session) {
		session.Style = style
	})
}

// History returns the session's conversation history in order.
func (s *Store) History(id string) ([]types.Message, error) {
	session, err := s.Get(id)
	if err != nil || session == nil {
		return nil, err
	}
	return session.History, nil
}

// Append adds one turn to the session's history, creating the session if
// needed and bumping its last-used timestamp.
func (s *Store) Append(id, role, content string, meta *types.ChartMeta) error {
	return s.update(id, func(session *types.Session) {
		session.History = append(session.History, types.Message{
			Role:      role,
			Content:   content,
			Timestamp: time.Now().UTC(),
			Meta:      meta,
		})
	})
}

// Touch bumps the session's last-used timestamp, creating it if needed.
func (s *Store) Touch(id string) error {
	return s.update(id, func(*types.Session) {})
}

// ClearHistory empties the session's conversation history but keeps the
// session and its style preference.
func (s *Store) ClearHistory(id string) error {
	return s.update(id, func(session *types.Session) {
		session.History = nil
	})
}

// Delete removes the session entirely. Deleting a missing session is not an
// error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load()
	if err != nil {
		return err
	}
	delete(sessions, id)
	return s.save(sessions)
}

// update applies fn to the session under the lock, creating the session and
// bumping last-used before persisting.
func (s *Store) update(id string, fn func(*types.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	session, ok := sessions[id]
	if !ok {
		session = &types.Session{ID: id, CreatedAt: now}
		sessions[id] = session
	}
	fn(session)
	session.LastUsed = now

	return s.save(sessions)
}

// load reads all sessions. A corrupt or missing file yields an empty map
// rather than an error, matching last-write-wins semantics.
func (s *Store) load() (map[string]*types.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*types.Session{}, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	sessions := map[string]*types.Session{}
	if err := json.Unmarshal(data, &sessions); err != nil {
		return map[string]*types.Session{}, nil
	}
	return sessions, nil
}

func (s *Store) save(sessions map[string]*types.Session) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
