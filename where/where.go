// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/tvxlabs/mediabridge/constant"
	"github.com/tvxlabs/mediabridge/filesystem"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "MEDIABRIDGE_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory: MEDIABRIDGE_CONFIG_PATH when set,
// otherwise the platform user config directory (XDG_CONFIG_HOME on Linux).
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Mediabridge))
}

// Cache resolves the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Mediabridge))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Profiles resolves the user engine profiles file.
func Profiles() string {
	return filepath.Join(Config(), "profiles.yaml")
}

// Recent resolves the remembered sources file.
func Recent() string {
	return filepath.Join(Cache(), "recent.json")
}

// Temp resolves the directory for transient artifacts such as engine IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Mediabridge))
}
