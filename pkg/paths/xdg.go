// Package paths provides XDG-compliant path resolution for cellconsole.
//
// Resolution order:
// 1. CELLCONSOLE_HOME (portable root) → $CELLCONSOLE_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/cellconsole
// 3. Platform defaults → ~/.config/cellconsole, ~/.local/state/cellconsole
package paths

import (
	"os"
	"path/filepath"
)

const appName = "cellconsole"

func home(sub, xdgVar string, fallback ...string) string {
	if root := os.Getenv("CELLCONSOLE_HOME"); root != "" {
		return filepath.Join(root, sub)
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append(append([]string{homeDir}, fallback...), appName)...)
	}
	return ""
}

// ConfigDir returns the global configuration directory.
// Holds the fallback cellconsole.yml.
func ConfigDir() string {
	return home("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the state directory.
// Used for operator preferences, logs and the server pid file.
func StateDir() string {
	return home("state", "XDG_STATE_HOME", ".local", "state")
}

// LogDir returns the directory for file log sinks.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// PidFilePath returns the path to the state server PID file.
func PidFilePath() string {
	return filepath.Join(StateDir(), "serve.pid")
}

// PreferencesPath returns the path of the persisted operator preferences.
func PreferencesPath() string {
	return filepath.Join(StateDir(), "state.yml")
}

// EnsureDirs creates the config and state directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), LogDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
