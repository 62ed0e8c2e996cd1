package parser

import (
	"os"
	"path/filepath"
	"runtime"
)

// Environment carries the ambient inputs path discovery depends on. It is
// threaded explicitly into every parser so discovery can run against a
// synthetic directory tree in tests without mutating process state.
type Environment struct {
	// HomeDir is the user's home directory.
	HomeDir string

	// GOOS is the platform tag ("darwin", "linux", "windows", ...).
	GOOS string

	// Getenv looks up an environment variable. Only used for the Windows
	// APPDATA branch.
	Getenv func(string) string
}

// DefaultEnvironment resolves the real process environment.
func DefaultEnvironment() Environment {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Environment{
		HomeDir: home,
		GOOS:    runtime.GOOS,
		Getenv:  os.Getenv,
	}
}

func (e Environment) getenv(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

// appData returns the Windows roaming application-data directory, falling
// back to the conventional location under the home directory.
func (e Environment) appData() string {
	if v := e.getenv("APPDATA"); v != "" {
		return v
	}
	return filepath.Join(e.HomeDir, "AppData", "Roaming")
}

// VSCodeGlobalStorage returns the VS Code extension globalStorage directory
// for the current platform. Unrecognized platforms fall back to the Linux
// layout.
func (e Environment) VSCodeGlobalStorage() string {
	switch e.GOOS {
	case "darwin":
		return filepath.Join(e.HomeDir, "Library", "Application Support", "Code", "User", "globalStorage")
	case "linux":
		return filepath.Join(e.HomeDir, ".config", "Code", "User", "globalStorage")
	case "windows":
		return filepath.Join(e.appData(), "Code", "User", "globalStorage")
	default:
		return filepath.Join(e.HomeDir, ".config", "Code", "User", "globalStorage")
	}
}

// CursorGlobalStorage returns the Cursor IDE globalStorage directory for
// the current platform.
func (e Environment) CursorGlobalStorage() string {
	switch e.GOOS {
	case "darwin":
		return filepath.Join(e.HomeDir, "Library", "Application Support", "Cursor", "User", "globalStorage")
	case "linux":
		return filepath.Join(e.HomeDir, ".config", "Cursor", "User", "globalStorage")
	case "windows":
		return filepath.Join(e.appData(), "Cursor", "User", "globalStorage")
	default:
		return filepath.Join(e.HomeDir, ".config", "Cursor", "User", "globalStorage")
	}
}
