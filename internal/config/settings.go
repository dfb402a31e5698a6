package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

var ErrNegativeMaxRooms = errors.New("max_rooms must be >= 0")

// RelaySettings gates public room creation. MaxRooms of zero means
// unlimited. The relay core only ever reads a snapshot; mutation goes
// through the admin surface.
type RelaySettings struct {
	RequireAPIKey bool     `mapstructure:"require_api_key" json:"requireApiKey"`
	APIKeys       []string `mapstructure:"api_keys" json:"apiKeys"`
	MaxRooms      int      `mapstructure:"max_rooms" json:"maxRooms"`
}

// HasAPIKey reports whether key is in the active set.
func (s RelaySettings) HasAPIKey(key string) bool {
	if key == "" {
		return false
	}
	for _, k := range s.APIKeys {
		if k == key {
			return true
		}
	}
	return false
}

// SettingsPatch carries a partial update; nil fields are untouched.
type SettingsPatch struct {
	RequireAPIKey *bool     `json:"requireApiKey"`
	APIKeys       *[]string `json:"apiKeys"`
	MaxRooms      *int      `json:"maxRooms"`
}

// SettingsStore persists RelaySettings to a YAML file through viper.
type SettingsStore struct {
	mu      sync.RWMutex
	path    string
	current RelaySettings
}

// OpenSettings loads the settings file, starting from zero-value
// settings when the file does not exist yet.
func OpenSettings(path string) (*SettingsStore, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	st := &SettingsStore{path: path}
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Settings file not found (%s), starting empty\n", path)
		return st, nil
	}
	if err := v.Unmarshal(&st.current); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if st.current.MaxRooms < 0 {
		return nil, ErrNegativeMaxRooms
	}
	return st, nil
}

// Snapshot returns a copy safe to read without further locking.
func (st *SettingsStore) Snapshot() RelaySettings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := st.current
	out.APIKeys = append([]string(nil), st.current.APIKeys...)
	return out
}

// Apply merges a patch, persists the result, and returns it. The
// in-memory settings only change once the write succeeds.
func (st *SettingsStore) Apply(p SettingsPatch) (RelaySettings, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.current
	next.APIKeys = append([]string(nil), st.current.APIKeys...)
	if p.RequireAPIKey != nil {
		next.RequireAPIKey = *p.RequireAPIKey
	}
	if p.APIKeys != nil {
		next.APIKeys = append([]string(nil), (*p.APIKeys)...)
	}
	if p.MaxRooms != nil {
		if *p.MaxRooms < 0 {
			return st.current, ErrNegativeMaxRooms
		}
		next.MaxRooms = *p.MaxRooms
	}

	if err := st.write(next); err != nil {
		return st.current, err
	}
	st.current = next
	return next, nil
}

func (st *SettingsStore) write(s RelaySettings) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("require_api_key", s.RequireAPIKey)
	v.Set("api_keys", s.APIKeys)
	v.Set("max_rooms", s.MaxRooms)
	if err := v.WriteConfigAs(st.path); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}
