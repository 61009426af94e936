// Package storage defines the parts database directory abstraction.
package storage

import "time"

// FileInfo is the lightweight metadata returned by List.
type FileInfo struct {
	Name      string
	Size      int64
	UpdatedAt time.Time
}

// Provider is the interface for database directory operations.
// Every name is relative to the database root.
type Provider interface {
	// List returns metadata for every .json file directly under the root.
	List() ([]FileInfo, error)
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
	// Write atomically replaces the named file with content.
	Write(name string, content []byte) error
	// Delete removes the named file.
	Delete(name string) error
	// Path returns the absolute path of the named file.
	Path(name string) (string, error)
}
