package dispatch

import (
	"errors"
	"strings"

	"taiyaku/internal/scripts"
	"taiyaku/internal/store"
)

// Failure kinds.
const (
	KindValidation = "validation"
	KindStorage    = "storage"
	KindInternal   = "internal"
)

var (
	// ErrValidation matches validation failures on either side of a transport.
	ErrValidation = errors.New("validation failure")
	// ErrStorage matches storage failures on either side of a transport.
	ErrStorage = errors.New("storage failure")
)

// Failure is the transport-safe form of an operation error. Message carries
// the underlying diagnostic text unchanged.
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (f *Failure) Error() string {
	return f.Kind + ": " + f.Message
}

// Is lets errors.Is match a Failure against the dispatch and scripts sentinels.
func (f *Failure) Is(target error) bool {
	switch f.Kind {
	case KindValidation:
		return target == ErrValidation || target == scripts.ErrValidation
	case KindStorage:
		return target == ErrStorage
	}
	return false
}

// ErrorKind mirrors the classifier method of the typed domain errors.
func (f *Failure) ErrorKind() string { return f.Kind }

type classifier interface {
	ErrorKind() string
}

// Classify converts err into a Failure. It returns nil for a nil error.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	var storageErr *store.StorageError
	if errors.As(err, &storageErr) {
		return &Failure{Kind: KindStorage, Message: storageErr.Error()}
	}
	if errors.Is(err, store.ErrClosed) {
		return &Failure{Kind: KindStorage, Message: store.ErrClosed.Error()}
	}
	var validationErr *scripts.ValidationError
	if errors.As(err, &validationErr) {
		return &Failure{Kind: KindValidation, Message: validationErr.Error()}
	}
	var c classifier
	if errors.As(err, &c) {
		switch kind := c.ErrorKind(); kind {
		case KindValidation, KindStorage:
			return &Failure{Kind: kind, Message: err.Error()}
		}
	}
	return &Failure{Kind: KindInternal, Message: err.Error()}
}

func invalid(message string) *Failure {
	return &Failure{Kind: KindValidation, Message: message}
}

// ParseFailure rebuilds a Failure from its Error() text, as received by a
// transport client. Errors without a recognised kind prefix are returned
// unchanged.
func ParseFailure(err error) error {
	if err == nil {
		return nil
	}
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	kind, message, ok := strings.Cut(err.Error(), ": ")
	if !ok {
		return err
	}
	switch kind {
	case KindValidation, KindStorage, KindInternal:
		return &Failure{Kind: kind, Message: message}
	}
	return err
}
