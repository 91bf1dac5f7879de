package storage

import (
	"errors"
	"fmt"
)

// StorageKey holds the raw ViaCEP payload of the last successful lookup.
const StorageKey = "endereco"

// ErrCorrupt is returned when a backing file cannot be decoded.
var ErrCorrupt = errors.New("storage: corrupt store")

// Store is the client-local key/value storage of one form session.
type Store interface {
	// GetItem returns the value for key and whether it was present.
	GetItem(key string) (string, bool, error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(key, value string) error
}

// Opener returns the store that belongs to a session.
type Opener func(session string) (Store, error)

// NewOpener returns an Opener backed by files under dir, or by memory when
// dir is empty.
func NewOpener(dir string) (Opener, error) {
	if dir == "" {
		return func(string) (Store, error) {
			return NewMemoryStore(), nil
		}, nil
	}
	if err := ensureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return func(session string) (Store, error) {
		return NewFileStore(dir, session)
	}, nil
}
