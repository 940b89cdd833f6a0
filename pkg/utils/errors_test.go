package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestAppErrorIsMatchesByType(t *testing.T) {
	err := NewMissingDependencyError("tesseract not installed", nil)

	if !errors.Is(err, ErrMissingDependency) {
		t.Fatal("expected errors.Is to match the missing dependency sentinel")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Fatal("missing dependency must not match unsupported format")
	}

	wrapped := fmt.Errorf("annotate: %w", err)
	if !errors.Is(wrapped, ErrMissingDependency) {
		t.Fatal("sentinel match must survive fmt.Errorf wrapping")
	}
}

func TestWrapErrorKeepsTypeWhenUnspecified(t *testing.T) {
	base := NewMalformedInputError("bad xref table", nil)
	wrapped := WrapError(base, "", "pdf search failed")

	if wrapped.Type != ErrorTypeMalformedInput {
		t.Errorf("type = %s, want %s", wrapped.Type, ErrorTypeMalformedInput)
	}
	if wrapped.Message != "pdf search failed: bad xref table" {
		t.Errorf("message = %q", wrapped.Message)
	}
	if WrapError(nil, ErrorTypeIO, "ignored") != nil {
		t.Error("wrapping nil must return nil")
	}
}

func TestGetErrorTypeClassifies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"app error", NewConversionError("x", nil), ErrorTypeConversion},
		{"wrapped app error", fmt.Errorf("ctx: %w", NewValidationError("x", nil)), ErrorTypeValidation},
		{"not exist", fmt.Errorf("open: %w", os.ErrNotExist), ErrorTypeNotFound},
		{"permission", fmt.Errorf("open: %w", os.ErrPermission), ErrorTypePermission},
		{"canceled", context.Canceled, ErrorTypeTimeout},
		{"lookpath", errors.New(`exec: "soffice": executable file not found in $PATH`), ErrorTypeMissingDependency},
		{"other", errors.New("boom"), ErrorTypeSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorType(tt.err); got != tt.want {
				t.Errorf("GetErrorType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOutcome(t *testing.T) {
	cause := errors.New("disk full")

	if o := Succeeded(); !o.OK() || o.Propagate() != nil {
		t.Error("success outcome must be OK and propagate nothing")
	}
	if o := Failed(cause); o.OK() || o.IsIgnorable() || o.Propagate() != cause {
		t.Error("failed outcome must propagate its error")
	}

	o := Ignorable(cause)
	if o.OK() || !o.IsIgnorable() {
		t.Error("ignorable outcome must report failure and be ignorable")
	}
	if o.Propagate() != nil {
		t.Error("ignorable outcome must not propagate")
	}
	if o.Err() != cause {
		t.Error("ignorable outcome must still expose the cause for logging")
	}
	if Ignorable(nil).IsIgnorable() {
		t.Error("ignorable with nil error is a success")
	}
}
