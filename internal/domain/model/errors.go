package model

import "errors"

var (
	ErrTimeout       = errors.New("request timed out")
	ErrRequestFailed = errors.New("request failed")
	ErrNotConfigured = errors.New("remote service is not configured")
	ErrParse         = errors.New("malformed import document")
	ErrUnsupported   = errors.New("operation not supported")
	ErrNoSnapshot    = errors.New("no fetched data")
	ErrInvalidState  = errors.New("invalid batch state")
	ErrNotFound      = errors.New("not found")
)

// UnsupportedImportError is the fixed failure recorded for categories that
// cannot be imported.
type UnsupportedImportError struct {
	Category Category
}

func (e *UnsupportedImportError) Error() string {
	return "Импорт " + string(e.Category) + " не поддерживается"
}

func (e *UnsupportedImportError) Unwrap() error {
	return ErrUnsupported
}

// RequestError is a failed call to the remote service. Message is what the
// user sees, e.g. "HTTP ошибка: 500"; Status is 0 for transport failures.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return ErrRequestFailed
}
