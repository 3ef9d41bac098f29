// Package file reads the optional TOML settings file.
//
// The file holds non-secret settings only. Credentials are never read from it.
package file
