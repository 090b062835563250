package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownProduct is returned for a product key that is not in the catalog.
var ErrUnknownProduct = errors.New("unknown product")

// LoadErrorKind classifies why a bundle could not be loaded.
type LoadErrorKind int

const (
	// NotFound means the bundle file does not exist.
	NotFound LoadErrorKind = iota
	// Corrupt means the file exists but cannot be decoded as a bundle.
	Corrupt
	// Unreadable covers every other I/O failure.
	Unreadable
)

// String returns the display name of the kind.
func (k LoadErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Corrupt:
		return "corrupt"
	case Unreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// LoadError is returned by Load. It is fatal for the catalog: nothing can
// be forecast until the bundle at Path is fixed.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("model bundle %s is %s: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is a LoadError of the given kind.
func IsLoadError(err error, kind LoadErrorKind) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == kind
}
