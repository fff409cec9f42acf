package api

import (
	"errors"
	"net/http"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindTransport covers network failures and any unexpected status,
	// including 401 and 403.
	KindTransport Kind = iota
	// KindRateLimited means upstream answered 429. The caller may retry later.
	KindRateLimited
	// KindNotFound means no character has the requested name.
	KindNotFound
	// KindParse means the success body did not have the expected shape.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindNotFound:
		return "not_found"
	case KindParse:
		return "parse"
	default:
		return "transport"
	}
}

// Sentinels for errors.Is.
var (
	ErrTransport   = errors.New("lostark api: transport error")
	ErrRateLimited = errors.New("lostark api: rate limited")
	ErrNotFound    = errors.New("lostark api: character not found")
	ErrParse       = errors.New("lostark api: malformed response")
)

// Error is returned by every Client operation.
type Error struct {
	Kind Kind
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	Character  string
	Endpoint   string
	// Message is the localized, user-facing description.
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrParse:
		return e.Kind == KindParse
	}
	return false
}

// Unauthorized reports whether upstream rejected the credential.
func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
