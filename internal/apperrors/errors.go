// Package apperrors provides layered application errors. A root error is
// created with New; every package derives its own sentinel errors from it
// with New or Msg, and attaches underlying causes at the failure site with
// Err. errors.Is matches any ancestor as well as any attached cause.
package apperrors

import (
	"strings"
)

// Error is the error type returned across package boundaries.
type Error interface {
	error
	Unwrap() []error
	// New derives a sentinel error that keeps the receiver as its ancestor.
	New(msg string) Error
	// Msg derives an error with a more specific message.
	Msg(msg string) Error
	// MsgErr derives an error with a more specific message and causes.
	MsgErr(msg string, err ...error) Error
	// Err attaches causes without changing the message.
	Err(err ...error) Error
	SetStatusCode(code int) Error
	StatusCode() int
	// SetExpandError makes Error() include the attached causes.
	SetExpandError(expand bool) Error
	// ErrorAll returns the message followed by every attached cause.
	ErrorAll() string
}

type appError struct {
	msg        string
	parent     *appError
	causes     []error
	statusCode int
	expand     bool
}

var _ Error = (*appError)(nil)

func New(msg string) Error {
	return &appError{msg: msg}
}

func (e *appError) Error() string {
	if e.expand {
		return e.ErrorAll()
	}
	return e.msg
}

func (e *appError) Unwrap() []error {
	var errs []error
	if e.parent != nil {
		errs = append(errs, e.parent)
	}
	return append(errs, e.causes...)
}

func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		parent:     e,
		statusCode: e.statusCode,
		expand:     e.expand,
	}
}

func (e *appError) Msg(msg string) Error {
	return e.New(msg)
}

func (e *appError) MsgErr(msg string, err ...error) Error {
	return e.New(msg).Err(err...)
}

func (e *appError) Err(err ...error) Error {
	c := &appError{
		msg:        e.msg,
		parent:     e,
		statusCode: e.statusCode,
		expand:     e.expand,
	}
	for _, cause := range err {
		if cause != nil {
			c.causes = append(c.causes, cause)
		}
	}
	return c
}

func (e *appError) SetStatusCode(code int) Error {
	c := *e
	c.statusCode = code
	return &c
}

func (e *appError) StatusCode() int {
	return e.statusCode
}

func (e *appError) SetExpandError(expand bool) Error {
	c := *e
	c.expand = expand
	return &c
}

func (e *appError) ErrorAll() string {
	var sb strings.Builder
	sb.WriteString(e.msg)
	for _, cause := range e.allCauses() {
		sb.WriteString(": ")
		sb.WriteString(cause.Error())
	}
	return sb.String()
}

// allCauses collects causes attached at this level and by every ancestor that
// carries the same message, i.e. errors produced by chained Err calls.
func (e *appError) allCauses() []error {
	var causes []error
	for p := e; p != nil; p = p.parent {
		causes = append(append([]error{}, p.causes...), causes...)
		if p.parent == nil || p.parent.msg != p.msg {
			break
		}
	}
	return causes
}
