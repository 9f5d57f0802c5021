package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrConfigValid, "bad config")

	if err.Code != ErrConfigValid {
		t.Errorf("Code = %s, want %s", err.Code, ErrConfigValid)
	}
	if err.Error() != "[CONFIG_INVALID] bad config" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ErrPluginNotFound, "no %q plugin in the %s stage", "badname", "archive")

	want := `[PLUGIN_NOT_FOUND] no "badname" plugin in the archive stage`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := Wrap(cause, ErrFileAccess, "cannot read source")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if stderrors.Unwrap(err) != cause {
		t.Error("Unwrap() should return the cause")
	}

	if Wrap(nil, ErrFileAccess, "ignored") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestIsErrorCode(t *testing.T) {
	err := New(ErrPluginSkip, "no 'src' specified")

	if !IsErrorCode(err, ErrPluginSkip) {
		t.Error("IsErrorCode should match the error's code")
	}
	if IsErrorCode(err, ErrPluginConfig) {
		t.Error("IsErrorCode should not match a different code")
	}
	if IsErrorCode(fmt.Errorf("plain"), ErrPluginSkip) {
		t.Error("IsErrorCode should not match a plain error")
	}

	// Codes survive wrapping in plain errors.
	wrapped := fmt.Errorf("outer: %w", err)
	if !IsErrorCode(wrapped, ErrPluginSkip) {
		t.Error("IsErrorCode should see through fmt.Errorf wrapping")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(New(ErrEncrypt, "gpg failed")); got != ErrEncrypt {
		t.Errorf("GetErrorCode = %s, want %s", got, ErrEncrypt)
	}
	if got := GetErrorCode(fmt.Errorf("plain")); got != ErrUnknown {
		t.Errorf("GetErrorCode for plain error = %s, want %s", got, ErrUnknown)
	}
}

func TestWithDetail(t *testing.T) {
	err := New(ErrPluginConfig, "missing option").
		WithDetail("plugin", "scp").
		WithDetail("option", "host")

	details := GetErrorDetails(err)
	if details["plugin"] != "scp" || details["option"] != "host" {
		t.Errorf("details = %v", details)
	}
}
