package domain

import (
	"errors"
	"fmt"
)

// ErrObjectNotFound is the sentinel for a key confirmed absent from the
// object store. Adapters translate backend-specific "no such key" results
// into this error so callers never inspect SDK shapes.
var ErrObjectNotFound = errors.New("object not found in storage")

// MovePhase identifies which step of a move operation failed.
type MovePhase string

const (
	MovePhaseValidate MovePhase = "validate"
	MovePhaseUpload   MovePhase = "upload"
	MovePhaseDelete   MovePhase = "delete"
)

// StorageWriteError reports an upload that failed after retry exhaustion or
// whose post-write verification never saw the object.
type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage write %q: %v", e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// StorageReadError reports a download that failed after retries or an object
// confirmed absent. Use NotFound to distinguish the two.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("storage read %q: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// NotFound reports whether the read failed because the object is confirmed
// absent, as opposed to a transient backend failure.
func (e *StorageReadError) NotFound() bool {
	return errors.Is(e.Err, ErrObjectNotFound)
}

// StorageMoveError reports a failed move. Phase tells the caller whether any
// data loss is possible: a validate or upload failure leaves the source
// untouched; a delete failure means the destination was published and only a
// duplicate source object leaked.
type StorageMoveError struct {
	SourceKey string
	DestKey   string
	Phase     MovePhase
	Err       error
}

func (e *StorageMoveError) Error() string {
	return fmt.Sprintf("storage move %q -> %q (%s phase): %v", e.SourceKey, e.DestKey, e.Phase, e.Err)
}

func (e *StorageMoveError) Unwrap() error { return e.Err }
