package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateTag       = errors.New("tag name already exists")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Entity kinds reported by NotFoundError.
const (
	KindUser = "user"
	KindGame = "game"
	KindTag  = "tag"
)

// NotFoundError reports that a referenced entity does not exist.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Kind string
	ID   any
}

// NewNotFound returns a *NotFoundError for the given entity kind and id.
func NewNotFound(kind string, id any) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return e.Kind + " not found"
	}
	return fmt.Sprintf("%s %v not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidArgumentError reports a malformed input field.
// It matches ErrInvalidArgument with errors.Is.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

// NewInvalidArgument returns an *InvalidArgumentError.
func NewInvalidArgument(field, reason string) error {
	return &InvalidArgumentError{Field: field, Reason: reason}
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }
