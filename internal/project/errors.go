package project

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig           = errors.New("invalid project configuration")
	ErrInvalidProjectType      = errors.New("invalid project type")
	ErrInvalidLanguage         = errors.New("invalid language")
	ErrMissingAwsConfig        = errors.New("missing aws configuration")
	ErrMissingAwsStacks        = errors.New("missing aws stacks")
	ErrMissingPrivateNpmParams = errors.New("missing private npm params")
	ErrUnknownStackKey         = errors.New("unknown stack key")
	ErrMissingEnvironmentParam = errors.New("missing environment parameter")
)

// Error is returned for every project failure. Kind is one of the Err*
// sentinels and can be matched with errors.Is.
type Error struct {
	Kind  error
	Field string
	Msg   string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field)
	}
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, field, format string, args ...any) error {
	return &Error{Kind: kind, Field: field, Msg: fmt.Sprintf(format, args...)}
}
