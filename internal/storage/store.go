// Package storage implements the key→JSON document store the ledger engine
// persists into. Keys are slash-separated paths like "months/2025-08"; each
// key holds one JSON document. Writes to the same key are serialized so
// that overlapping read-modify-write cycles on one month never interleave.
package storage

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no document is stored under a key.
var ErrNotFound = errors.New("no document is stored under this key")

// ErrInvalidKey is returned for keys that would escape the store.
var ErrInvalidKey = errors.New("the document key is invalid")

// Store is the persistence contract of the ledger engine. All engine
// operations are whole-document read-modify-write cycles against a Store.
type Store interface {
	// Read unmarshals the document at key into v. Returns ErrNotFound if
	// the key does not exist.
	Read(key string, v any) error

	// ReadRaw returns the raw document bytes at key. Returns ErrNotFound
	// if the key does not exist.
	ReadRaw(key string) ([]byte, error)

	// Write marshals v and stores it at key, replacing any previous
	// document atomically.
	Write(key string, v any) error

	// Delete removes the document at key. Deleting a missing key is not
	// an error.
	Delete(key string) error

	// List returns all keys with the given prefix, sorted.
	List(prefix string) ([]string, error)

	// Exists reports whether a document is stored under key.
	Exists(key string) bool
}

// validKey rejects empty keys and path traversal.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") {
		return false
	}

	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}

	return true
}
