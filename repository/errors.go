package repository

import (
	"errors"
	"fmt"
	"strings"

	"disasterprep/models"
)

// Kind classifies repository failures.
type Kind int

const (
	// KindNotFound: unknown collection. A missing id is not an error.
	KindNotFound Kind = iota + 1
	// KindValidation: malformed create payload; the user can correct it.
	KindValidation
	// KindUnavailable: the store could not be reached or failed.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation error"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrUnavailable = errors.New("unavailable")
)

// Error is returned by every ContentRepository operation that fails.
type Error struct {
	Kind       Kind
	Op         string
	Collection models.Collection
	Fields     []string // Offending fields, for KindValidation
	Err        error
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s: %s", e.Op, e.Collection, e.Kind)
	if len(e.Fields) > 0 {
		fmt.Fprintf(&sb, " (fields: %s)", strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	}
	return false
}

func unknownCollection(op string, c models.Collection) error {
	return &Error{Kind: KindNotFound, Op: op, Collection: c, Err: fmt.Errorf("collection %q is not registered", string(c))}
}

func invalid(op string, c models.Collection, fields []string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Collection: c, Fields: fields, Err: err}
}

func unavailable(op string, c models.Collection, err error) error {
	return &Error{Kind: KindUnavailable, Op: op, Collection: c, Err: err}
}

// InvalidFields returns the offending field names of a validation error.
func InvalidFields(err error) []string {
	var repoErr *Error
	if errors.As(err, &repoErr) && repoErr.Kind == KindValidation {
		return repoErr.Fields
	}
	return nil
}
