package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error type. It is reported in the error
// envelope; the process exit status is 1 for every code.
type Code int

const (
	CodeSuccess             Code = 0
	CodeInternal            Code = 1
	CodeUsage               Code = 2
	CodeFetchFailure        Code = 10
	CodeUnknownContract     Code = 11
	CodeUnknownFragment     Code = 12
	CodeUnknownNetwork      Code = 13
	CodeUnknownContractRole Code = 14
	CodeUnknownToken        Code = 15
	CodeUpstreamHTTP        Code = 16
	CodeBlocked             Code = 17
)

// CodeMalformedInput flags user input that does not parse (e.g. a non-numeric chain id).
const CodeMalformedInput = CodeUsage

// Error is a typed CLI error that carries a stable error code and optional
// remediation hints printed after the message.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Hints   []string
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithHints appends remediation lines and returns the same error.
func (e *Error) WithHints(hints ...string) *Error {
	e.Hints = append(e.Hints, hints...)
	return e
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	cErr, ok := As(err)
	return ok && cErr.Code == code
}

func ExitCode(err error) int {
	if err == nil {
		return int(CodeSuccess)
	}
	return 1
}

// TypeName maps a code to the error type string used in envelopes.
func TypeName(code Code) string {
	switch code {
	case CodeUsage:
		return "malformed_input"
	case CodeFetchFailure:
		return "fetch_failure"
	case CodeUnknownContract:
		return "unknown_contract"
	case CodeUnknownFragment:
		return "unknown_fragment"
	case CodeUnknownNetwork:
		return "unknown_network"
	case CodeUnknownContractRole:
		return "unknown_contract_role"
	case CodeUnknownToken:
		return "unknown_token"
	case CodeUpstreamHTTP:
		return "upstream_http_error"
	case CodeBlocked:
		return "command_blocked"
	default:
		return "internal_error"
	}
}
