package record

import (
	"errors"
	"strings"
)

// ErrInvalidKey is returned when a storage key cannot be parsed.
var ErrInvalidKey = errors.New("invalid key")

// Key identifies a persisted object: the class name plus the object identity.
// Both backends use the same key.
type Key struct {
	Class string
	ID    string
}

// NewKey returns a new key.
func NewKey(class, id string) Key {
	return Key{
		Class: class,
		ID:    id,
	}
}

// ParseKey splits a key into its class and identity part.
func ParseKey(key string) (Key, error) {
	splitted := strings.SplitN(key, ":", 2)
	if len(splitted) != 2 || splitted[0] == "" || splitted[1] == "" {
		return Key{}, ErrInvalidKey
	}
	return Key{
		Class: splitted[0],
		ID:    splitted[1],
	}, nil
}

// String returns the string representation of the key, eg. "person:42".
func (k Key) String() string {
	return k.Class + ":" + k.ID
}

// Valid returns whether both parts of the key are set.
func (k Key) Valid() bool {
	return k.Class != "" && k.ID != "" && !strings.Contains(k.Class, ":")
}
