package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/room-reservation/internal/repository"
)

// Domain errors returned by the services.  Handlers map each one to a
// distinct error code.
var (
	ErrInvalidDateRange = errors.New("check-out date is before check-in date")
	ErrDateUnavailable  = errors.New("stay type is not available on the check-in date")
	ErrSalesBlocked     = errors.New("sales of this stay type are stopped for the room")
	ErrRoomConflict     = errors.New("room is already reserved for an overlapping period")
	ErrNotFound         = errors.New("not found")
)

// FieldError names one invalid input field and why it was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every invalid field of a request, not just the
// first one found.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Reason
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

// ConflictError is a RoomConflict that names the reservations in the way.
type ConflictError struct {
	RoomID uint64
	With   []uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room %d: %s (reservations %v)", e.RoomID, ErrRoomConflict, e.With)
}

func (e *ConflictError) Is(target error) bool { return target == ErrRoomConflict }

// PersistenceError wraps a storage failure the service cannot interpret.
// Callers should present it as a generic failure and retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// storageErr classifies an error coming out of a repository call.  Domain
// errors raised inside a transaction callback pass through unchanged.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var ce *ConflictError
	switch {
	case errors.As(err, &ve), errors.As(err, &ce),
		errors.Is(err, ErrInvalidDateRange), errors.Is(err, ErrDateUnavailable),
		errors.Is(err, ErrSalesBlocked), errors.Is(err, ErrRoomConflict), errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return &PersistenceError{Op: op, Err: err}
}
