package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/chart-agent/internal/types"
)

// Preference is the single process-wide color-scheme preference that survives
// across sessions. It is loaded once at startup and written through on every
// change; concurrent writers race with last-write-wins, which is an accepted
// policy for this one value.
type Preference struct {
	path   string
	mu     sync.RWMutex
	scheme types.ColorScheme
}

type preferenceFile struct {
	ColorScheme types.ColorScheme `json:"color_scheme,omitempty"`
}

// LoadPreference reads the persistent preference from disk, treating a
// missing or corrupt file as "no preference".
func LoadPreference(path string) (*Preference, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	p := &Preference{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("failed to read preference file: %w", err)
	}

	var f preferenceFile
	if err := json.Unmarshal(data, &f); err == nil {
		if f.ColorScheme == types.SchemeFD || f.ColorScheme == types.SchemeBNR {
			p.scheme = f.ColorScheme
		}
	}
	return p, nil
}

// Get returns the stored scheme, or empty when none has been saved.
func (p *Preference) Get() types.ColorScheme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scheme
}

// Set stores the scheme and writes it through to disk.
func (p *Preference) Set(scheme types.ColorScheme) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.scheme = scheme
	data, err := json.MarshalIndent(preferenceFile{ColorScheme: scheme}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preference: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preference file: %w", err)
	}
	return nil
}
