// Package state persists operator preferences between console sessions.
// View state itself is never persisted.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/cellconsole/pkg/models"
	"github.com/grovetools/cellconsole/pkg/paths"
	"gopkg.in/yaml.v3"
)

// Preferences is the contents of the preferences file. Keys this version
// does not know are kept in Extra and written back unchanged.
type Preferences struct {
	UIMode  models.UIMode          `yaml:"ui_mode,omitempty" json:"ui_mode,omitempty"`
	Overlay *Overlay               `yaml:"overlay,omitempty" json:"overlay,omitempty"`
	Extra   map[string]interface{} `yaml:",inline" json:"extra,omitempty"`
}

// Overlay mirrors the overlay toggles the operator can flip.
type Overlay struct {
	Edges     bool `yaml:"edges" json:"edges"`
	Holes     bool `yaml:"holes" json:"holes"`
	Labels    bool `yaml:"labels" json:"labels"`
	Width     bool `yaml:"width" json:"width"`
	Height    bool `yaml:"height" json:"height"`
	Area      bool `yaml:"area" json:"area"`
	Perimeter bool `yaml:"perimeter" json:"perimeter"`
}

// preferencesPath is a variable so tests can redirect it.
var preferencesPath = paths.PreferencesPath

// mu serializes read-modify-write cycles within the process.
var mu sync.Mutex

// Load reads the preferences file. A missing file yields empty preferences.
func Load() (*Preferences, error) {
	mu.Lock()
	defer mu.Unlock()
	return load()
}

func load() (*Preferences, error) {
	prefs := &Preferences{}
	data, err := os.ReadFile(preferencesPath())
	if os.IsNotExist(err) {
		return prefs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", preferencesPath(), err)
	}
	return prefs, nil
}

func save(prefs *Preferences) error {
	path := preferencesPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return os.Rename(tmp, path)
}

// Update loads the preferences, applies fn and writes the result.
func Update(fn func(*Preferences)) error {
	mu.Lock()
	defer mu.Unlock()
	prefs, err := load()
	if err != nil {
		return err
	}
	fn(prefs)
	return save(prefs)
}

// Reset removes the preferences file.
func Reset() error {
	mu.Lock()
	defer mu.Unlock()
	if err := os.Remove(preferencesPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove preferences: %w", err)
	}
	return nil
}

// UIMode returns the saved workflow. ok is false when none, or an unknown
// one, is saved.
func UIMode() (mode models.UIMode, ok bool) {
	prefs, err := Load()
	if err != nil {
		return "", false
	}
	return prefs.UIMode, prefs.UIMode.Valid()
}

// SetUIMode saves the workflow.
func SetUIMode(mode models.UIMode) error {
	return Update(func(p *Preferences) { p.UIMode = mode })
}

// OverlayToggles returns the saved overlay toggles.
func OverlayToggles() (Overlay, bool, error) {
	prefs, err := Load()
	if err != nil || prefs.Overlay == nil {
		return Overlay{}, false, err
	}
	return *prefs.Overlay, true, nil
}

// SetOverlayToggles saves the overlay toggles.
func SetOverlayToggles(o Overlay) error {
	return Update(func(p *Preferences) { p.Overlay = &o })
}
