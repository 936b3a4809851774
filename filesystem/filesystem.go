// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// Every package that touches disk goes through API() so tests can swap in an
// in-memory backend without patching call sites.
package filesystem

import "github.com/spf13/afero"

var active = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return active
}

// SetOsFs restores the filesystem backend to the native operating system implementation.
func SetOsFs() {
	active = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs initializes a volatile in-memory filesystem backend for unit testing.
func SetMemMapFs() {
	active = afero.Afero{Fs: afero.NewMemMapFs()}
}
