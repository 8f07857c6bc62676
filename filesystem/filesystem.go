// Package filesystem is the single entry point to disk for mediabridge: config, logs, the
// recent sources cache, profiles and engine sockets all go through API, so tests can swap
// the whole tree for memory.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// Use replaces the backend with fs.
func Use(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}

// SetOsFs switches back to the real filesystem.
func SetOsFs() {
	Use(afero.NewOsFs())
}

// SetMemMapFs switches to an empty in-memory filesystem.
func SetMemMapFs() {
	Use(afero.NewMemMapFs())
}
