package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSeatNotFound is returned when a seat id is not part of the inventory.
	ErrSeatNotFound = errors.New("seat not found")
	// ErrSeatAlreadyBooked is returned when a booking already holds the seat.
	ErrSeatAlreadyBooked = errors.New("seat already booked")
	// ErrLedgerBusy is returned when another process holds the ledger lock
	// for longer than the caller is willing to wait.
	ErrLedgerBusy = errors.New("ledger is busy")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")
)

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StorageError reports a ledger store failure other than a missing file.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", ErrStorage, e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
