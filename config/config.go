// Package config manages the tool's JSON settings file.
package config

import (
	"encoding/json"
	"os"
	"sync"
)

// Settings holds user-tunable options.
type Settings struct {
	CredentialsFile string `json:"credentialsFile"` // OAuth client secret
	TokenFile       string `json:"tokenFile"`       // cached OAuth token
	ExportDir       string `json:"exportDir"`       // where CSV files land
	MaxResults      int64  `json:"maxResults"`      // retrieval cap per search
}

func defaults() *Settings {
	return &Settings{
		CredentialsFile: "credentials.json",
		TokenFile:       "token.json",
		ExportDir:       "csv_files",
		MaxResults:      100,
	}
}

// Manager handles loading, saving, and accessing settings.
type Manager struct {
	filePath string
	settings *Settings
	mu       sync.RWMutex
}

// NewManager loads settings from filePath, creating the file with
// defaults when it does not exist yet.
func NewManager(filePath string) (*Manager, error) {
	m := &Manager{filePath: filePath, settings: defaults()}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return m.save()
		}
		return err
	}

	s := defaults()
	if err := json.Unmarshal(data, s); err != nil {
		return err
	}
	if s.MaxResults <= 0 {
		s.MaxResults = defaults().MaxResults
	}
	m.settings = s
	return nil
}

// save persists the current settings. Callers must hold the lock.
func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.filePath, data, 0o644)
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.settings
}

// SetExportDir updates the export directory and saves.
func (m *Manager) SetExportDir(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.ExportDir = dir
	return m.save()
}

// SetMaxResults updates the retrieval cap and saves.
func (m *Manager) SetMaxResults(n int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > 0 {
		m.settings.MaxResults = n
	}
	return m.save()
}
