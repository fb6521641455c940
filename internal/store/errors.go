package store

import "errors"

// ErrClosed is returned for statements submitted after Close.
var ErrClosed = errors.New("storage engine closed")

// StorageError reports an engine-level fault: I/O, constraint violation,
// or a malformed statement. Error returns the driver message verbatim.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e == nil || e.Err == nil {
		return "storage failure"
	}
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// ErrorKind classifies the failure for transports.
func (e *StorageError) ErrorKind() string { return "storage" }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *StorageError
	if errors.As(err, &existing) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
