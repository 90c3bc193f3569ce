package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindUnknown, "unknown error"},
		{KindNotFound, "not found"},
		{KindInvalid, "invalid"},
		{KindPermission, "permission denied"},
		{KindIO, "I/O error"},
		{KindConfig, "configuration error"},
		{KindProvider, "provider error"},
		{KindTimeout, "timeout"},
		{KindCanceled, "canceled"},
		{KindStorage, "storage error"},
		{Kind(999), "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("Kind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "with op and context",
			err:      &Error{Op: "upload.Inspect", Context: "report.xlsx", Err: errors.New("boom")},
			expected: "upload.Inspect: report.xlsx: boom",
		},
		{
			name:     "with op only",
			err:      &Error{Op: "upload.Inspect", Err: errors.New("boom")},
			expected: "upload.Inspect: boom",
		},
		{
			name:     "without op",
			err:      &Error{Err: errors.New("boom")},
			expected: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestE(t *testing.T) {
	tests := []struct {
		name        string
		args        []interface{}
		wantOp      Op
		wantKind    Kind
		wantMessage string
	}{
		{
			name:        "all args",
			args:        []interface{}{Op("session.Submit"), KindProvider, "context", errors.New("error")},
			wantOp:      "session.Submit",
			wantKind:    KindProvider,
			wantMessage: "session.Submit: context: error",
		},
		{
			name:        "context becomes the error",
			args:        []interface{}{Op("config.Validate"), KindInvalid, "bad value"},
			wantOp:      "config.Validate",
			wantKind:    KindInvalid,
			wantMessage: "config.Validate: bad value",
		},
		{
			name:        "bare error",
			args:        []interface{}{errors.New("simple error")},
			wantKind:    KindUnknown,
			wantMessage: "simple error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := E(tt.args...)
			e, ok := err.(*Error)
			if !ok {
				t.Fatalf("E() returned %T, want *Error", err)
			}
			if e.Op != tt.wantOp {
				t.Errorf("Op = %q, want %q", e.Op, tt.wantOp)
			}
			if e.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", e.Kind, tt.wantKind)
			}
			if err.Error() != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMessage)
			}
		})
	}
}

func TestIsAndGetKind(t *testing.T) {
	wrapped := fmt.Errorf("wrapped: %w", E(Op("test"), KindTimeout, "slow"))

	if !Is(wrapped, KindTimeout) {
		t.Error("Is should see through fmt wrapping")
	}
	if Is(errors.New("plain"), KindTimeout) {
		t.Error("plain errors have no kind")
	}
	if Is(nil, KindNotFound) {
		t.Error("nil is never a kind")
	}
	if GetKind(wrapped) != KindTimeout {
		t.Errorf("GetKind = %v, want timeout", GetKind(wrapped))
	}
	if GetKind(nil) != KindUnknown {
		t.Errorf("GetKind(nil) = %v, want unknown", GetKind(nil))
	}
}

func TestConstructors(t *testing.T) {
	underlying := errors.New("underlying")

	tests := []struct {
		name  string
		err   error
		kind  Kind
		op    Op
		wraps bool
	}{
		{"FileNotFound", FileNotFound("/x.xlsx", underlying), KindNotFound, "upload.Inspect", true},
		{"FileNotRegular", FileNotRegular("/tmp"), KindInvalid, "upload.Inspect", false},
		{"FileUnreadable", FileUnreadable("/x.xlsx", underlying), KindIO, "upload.Inspect", true},
		{"FileNotSpreadsheet", FileNotSpreadsheet("notes.txt"), KindInvalid, "session.SelectPath", false},
		{"ProviderUnknown", ProviderUnknown("bogus"), KindConfig, "provider.New", false},
		{"ProviderMissingKey", ProviderMissingKey("openai", "OPENAI_API_KEY"), KindConfig, "provider.New", false},
		{"ProviderFailed", ProviderFailed("openai", underlying), KindProvider, "provider.Reply", true},
		{"ProviderEmptyReply", ProviderEmptyReply("mock"), KindProvider, "provider.Reply", false},
		{"ConfigLoadFailed", ConfigLoadFailed("/c.json", underlying), KindConfig, "config.Load", true},
		{"ConfigSaveFailed", ConfigSaveFailed("/c.json", underlying), KindConfig, "config.Save", true},
		{"ConfigInvalid", ConfigInvalid("bad"), KindInvalid, "config.Validate", false},
		{"TranscriptFailed", TranscriptFailed("Open", underlying), KindStorage, "transcript.Open", true},
		{"TranscriptNotFound", TranscriptNotFound("abc"), KindNotFound, "transcript.Messages", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !Is(tt.err, tt.kind) {
				t.Errorf("kind = %v, want %v", GetKind(tt.err), tt.kind)
			}
			var e *Error
			if !errors.As(tt.err, &e) {
				t.Fatalf("expected *Error, got %T", tt.err)
			}
			if e.Op != tt.op {
				t.Errorf("Op = %q, want %q", e.Op, tt.op)
			}
			if got := errors.Is(tt.err, underlying); got != tt.wraps {
				t.Errorf("wraps underlying = %v, want %v", got, tt.wraps)
			}
		})
	}
}

func TestProviderFailed_Kinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"provider fault", errors.New("503 from upstream"), KindProvider},
		{"canceled", context.Canceled, KindCanceled},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("request: %w", context.DeadlineExceeded), KindTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ProviderFailed("openai", tt.err)
			if got := GetKind(err); got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Error("cause should stay reachable")
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	innerErr := errors.New("original error")
	middleErr := E(Op("middle.Op"), KindIO, innerErr)
	outerErr := E(Op("outer.Op"), KindConfig, middleErr)

	if !errors.Is(outerErr, innerErr) {
		t.Error("Should be able to find inner error through chain")
	}
	if GetKind(outerErr) != KindConfig {
		t.Error("GetKind should return outer error's kind")
	}
}
