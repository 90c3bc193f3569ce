// Package errors provides structured error types for sheetchat.
// Each error records the operation that failed and a coarse category
// so callers can branch on what went wrong without string matching.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindPermission
	KindIO
	KindConfig
	KindProvider
	KindTimeout
	KindCanceled
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindPermission:
		return "permission denied"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindProvider:
		return "provider error"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindStorage:
		return "storage error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for sheetchat.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// File errors
func FileNotFound(path string, err error) error {
	return E(Op("upload.Inspect"), KindNotFound, fmt.Sprintf("file %s not found", path), err)
}

func FileNotRegular(path string) error {
	return E(Op("upload.Inspect"), KindInvalid, fmt.Sprintf("%s is not a regular file", path))
}

func FileUnreadable(path string, err error) error {
	return E(Op("upload.Inspect"), KindIO, fmt.Sprintf("failed to read %s", path), err)
}

func FileNotSpreadsheet(name string) error {
	return E(Op("session.SelectPath"), KindInvalid, fmt.Sprintf("%s is not an Excel spreadsheet", name))
}

// Provider errors
func ProviderUnknown(name string) error {
	return E(Op("provider.New"), KindConfig, fmt.Sprintf("unknown provider %q", name))
}

func ProviderMissingKey(name, envVar string) error {
	return E(Op("provider.New"), KindConfig, fmt.Sprintf("%s provider requires %s", name, envVar))
}

// ProviderFailed wraps a failed reply. Cancellation and deadline errors get
// KindCanceled and KindTimeout so callers can tell them from provider faults.
func ProviderFailed(name string, err error) error {
	kind := KindProvider
	switch {
	case errors.Is(err, context.Canceled):
		kind = KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	}
	return E(Op("provider.Reply"), kind, fmt.Sprintf("%s reply failed", name), err)
}

func ProviderEmptyReply(name string) error {
	return E(Op("provider.Reply"), KindProvider, fmt.Sprintf("%s returned an empty reply", name))
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Transcript errors
func TranscriptFailed(op string, err error) error {
	return E(Op("transcript."+op), KindStorage, err)
}

func TranscriptNotFound(id string) error {
	return E(Op("transcript.Messages"), KindNotFound, fmt.Sprintf("conversation %s not found", id))
}
