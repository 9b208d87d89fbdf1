package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "node %q not found", "clock")

	if err.Code != ErrCodeNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNotFound)
	}
	if err.Message != `node "clock" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("Error() should contain code, got %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := Wrap(ErrCodeProtocol, cause, "invalid command")

	if err.Cause != cause {
		t.Error("Cause not preserved")
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "unexpected end of JSON input") {
		t.Errorf("Error() should include cause, got %q", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeAlreadyExists, "node %q already exists", "bar")

	if !Is(err, ErrCodeAlreadyExists) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeNotFound) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeNotFound) {
		t.Error("Is should not match a plain error")
	}

	// Matching through a wrap chain
	outer := fmt.Errorf("dispatch: %w", err)
	if !Is(outer, ErrCodeAlreadyExists) {
		t.Error("Is should unwrap to find the coded error")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidValue, "invalid width")); got != ErrCodeInvalidValue {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeInvalidValue)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode on plain error = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeUnknownProperty, "unknown property: %q", "paddding")
	if got := UserMessage(err); got != `unknown property: "paddding"` {
		t.Errorf("UserMessage = %q", got)
	}
	if strings.Contains(UserMessage(err), "UNKNOWN_PROPERTY") {
		t.Error("UserMessage should strip the code prefix")
	}

	plain := fmt.Errorf("broken pipe")
	if got := UserMessage(plain); got != "broken pipe" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}
