package repository

import (
	"errors"
	"fmt"

	"github.com/ikkim/freshcart-backend/internal/storage"
)

// PersistenceError reports a durable store read or write that failed
type PersistenceError struct {
	Op  string // load, save
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the snapshot has never been written
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
