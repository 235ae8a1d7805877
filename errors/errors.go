package errors

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

type Status struct {
	Code     int32             `json:"code"`
	Reason   string            `json:"reason"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type Error struct {
	Status
	Err   string `json:"error,omitempty"`
	clone bool
	error
}

func (e *Error) Error() string {
	if e.error != nil {
		e.Err = e.error.Error()
	}
	err, _ := json.Marshal(e)
	return string(err)
}

func NewError(code int, reason, msg string) *Error {
	return &Error{
		Status: Status{
			Code:    int32(code),
			Reason:  reason,
			Message: msg,
		},
	}
}

func (e *Error) Unwrap() error {
	return e.error
}

// Is matches on code and reason so sentinel values compare equal to
// errors carrying different messages or metadata.
func (e *Error) Is(err error) bool {
	if se := new(Error); errors.As(err, &se) {
		return se.Code == e.Code && se.Reason == e.Reason
	}
	return false
}

func (e *Error) WithError(cause error) *Error {
	err := clone(e)
	err.error = cause
	return err
}

func (e *Error) WithMetadata(md map[string]string) *Error {
	err := clone(e)
	for k, v := range md {
		err.Metadata[k] = v
	}
	return err
}

func (e *Error) WithMeta(key, value string) *Error {
	return e.WithMetadata(map[string]string{key: value})
}

func (e *Error) WithMessage(msg string) *Error {
	err := clone(e)
	err.Message = msg
	return err
}

func (e *Error) WithMessagef(format string, args ...interface{}) *Error {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

func Code(err error) int {
	if err == nil {
		return 0
	}
	return int(FromError(err).Code)
}

func Reason(err error) string {
	if err == nil {
		return UnknownReason
	}
	return FromError(err).Reason
}

// Meta returns the metadata value stored under key, if err is an *Error.
func Meta(err error, key string) string {
	if se := new(Error); errors.As(err, &se) {
		return se.Metadata[key]
	}
	return ""
}

func clone(err *Error) *Error {
	if err.clone {
		return err
	}
	metadata := make(map[string]string, len(err.Metadata))
	for k, v := range err.Metadata {
		metadata[k] = v
	}
	return &Error{
		error: err.error,
		Status: Status{
			Code:     err.Code,
			Reason:   err.Reason,
			Message:  err.Message,
			Metadata: metadata,
		},
		clone: true,
	}
}

// convert error to Error

func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	if se := new(Error); errors.As(err, &se) {
		return se
	}
	return NewError(UnknownCode, UnknownReason, err.Error()).WithError(err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func New(msg string) error {
	return errors.New(msg)
}

func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}
