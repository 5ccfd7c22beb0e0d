package errdef

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeUnknown    Code = "unknown"
	CodeValidation Code = "validation"
	CodeImport     Code = "import"
	CodeDiscovery  Code = "discovery"
	CodeHTTP       Code = "http"
	CodeFilesystem Code = "filesystem"
	CodeHistory    Code = "history"
)

type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		if e.Msg != "" {
			return fmt.Sprintf("%s: %v", e.Msg, e.Err)
		}
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, err error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf walks the wrap chain and returns the first code it finds.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) && coded != nil {
		return coded.Code
	}
	return CodeUnknown
}

func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// Message returns a short, user facing description of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) && coded != nil && coded.Msg != "" {
		return coded.Msg
	}
	return err.Error()
}
