package api

import (
	"errors"
	"fmt"
	"net/http"

	"finboard/internal/log"
)

// ErrorKind classifies a failed call the way the dashboard reports it.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindServer       ErrorKind = "server_error"
	KindNetwork      ErrorKind = "network_error"
	KindStatus       ErrorKind = "unexpected_status"
	KindDecode       ErrorKind = "decode_error"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("resource not found")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
)

// Error describes a failed backend call.
type Error struct {
	Kind       ErrorKind
	Method     string
	Path       string
	StatusCode int    // zero when no response was received
	Body       string // truncated response body, for logs only
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.Path, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets callers match on the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrServer:
		return e.Kind == KindServer
	case ErrNetwork:
		return e.Kind == KindNetwork
	}
	return false
}

func kindForStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized:
		return KindUnauthorized
	case code == http.StatusNotFound:
		return KindNotFound
	case code >= 500:
		return KindServer
	}
	return KindStatus
}

// logErrorType maps a kind onto the shared log error-type vocabulary.
func logErrorType(k ErrorKind) string {
	switch k {
	case KindUnauthorized:
		return log.ErrorTypeAuth
	case KindNotFound:
		return log.ErrorTypeNotFound
	case KindNetwork:
		return log.ErrorTypeNetwork
	case KindDecode:
		return log.ErrorTypeDecode
	case KindServer:
		return log.ErrorTypeUpstream
	}
	return log.ErrorTypeUnexpected
}
