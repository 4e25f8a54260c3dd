package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidManifest, "bad line %d", 3)
	if err.Code != ErrCodeInvalidManifest {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidManifest)
	}
	if err.Message != "bad line 3" {
		t.Errorf("Message = %q", err.Message)
	}
	if got, want := err.Error(), "INVALID_MANIFEST: bad line 3"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetch grpcio-tools")

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap did not return cause")
	}
	if got, want := err.Error(), "NETWORK_ERROR: fetch grpcio-tools: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodePackageNotFound, "no such package")
	if !Is(err, ErrCodePackageNotFound) {
		t.Error("Is returned false for matching code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is returned true for mismatched code")
	}
	if Is(errors.New("plain"), ErrCodeNetwork) {
		t.Error("Is returned true for unstructured error")
	}
	if got := GetCode(err); got != ErrCodePackageNotFound {
		t.Errorf("GetCode = %v", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeTimeout, "registry timed out")); got != "registry timed out" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
