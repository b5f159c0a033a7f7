package orderedmap

import (
	"errors"
	"fmt"
)

var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrKeyExists     = errors.New("key already exists")
	ErrEmpty         = errors.New("mapping is empty")
	ErrNoAdjacentKey = errors.New("no adjacent key")
)

func keyNotFound[K comparable](key K) error {
	return fmt.Errorf("%w: %v", ErrKeyNotFound, key)
}
