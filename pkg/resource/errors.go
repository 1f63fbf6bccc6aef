package resource

import (
	"errors"
	"fmt"
)

// AssetKind names the cache an error came from.
type AssetKind string

const (
	KindImage AssetKind = "image"
	KindFont  AssetKind = "font"
	KindText  AssetKind = "text"
)

// Reason categorizes a resolution failure.
type Reason string

const (
	ReasonNotFound    Reason = "not_found"   // file source does not exist
	ReasonUnreadable  Reason = "unreadable"  // IO error, permission, size limit
	ReasonCorrupt     Reason = "corrupt"     // bytes present but malformed
	ReasonUnsupported Reason = "unsupported" // well-formed but not decodable here
)

// Sentinel errors matched by ReloadError.Is.
var (
	ErrNotFound    = errors.New("resource: source not found")
	ErrUnreadable  = errors.New("resource: source unreadable")
	ErrCorrupt     = errors.New("resource: source corrupt")
	ErrUnsupported = errors.New("resource: source unsupported")
)

// ReloadError reports why a pending source could not be turned into bytes.
// It is produced only during resolution, never by Add.
type ReloadError struct {
	Kind   AssetKind
	Reason Reason
	Source string
	Err    error
}

// Error implements the error interface.
func (e *ReloadError) Error() string {
	msg := fmt.Sprintf("resource: %s %s: %s", e.Kind, e.Reason, e.Source)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ReloadError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's Reason.
func (e *ReloadError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Reason == ReasonNotFound
	case ErrUnreadable:
		return e.Reason == ReasonUnreadable
	case ErrCorrupt:
		return e.Reason == ReasonCorrupt
	case ErrUnsupported:
		return e.Reason == ReasonUnsupported
	}
	return false
}

func reloadErr(kind AssetKind, reason Reason, source string, cause error) *ReloadError {
	return &ReloadError{Kind: kind, Reason: reason, Source: source, Err: cause}
}
