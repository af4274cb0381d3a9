package httpclient

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/kbukum/httptargets/errors"
)

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status    int
		code      ErrorCode
		retryable bool
	}{
		{401, ErrCodeAuth, false},
		{403, ErrCodeAuth, false},
		{404, ErrCodeNotFound, false},
		{409, ErrCodeValidation, false},
		{429, ErrCodeRateLimit, true},
		{500, ErrCodeServer, true},
		{503, ErrCodeServer, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := ClassifyStatusCode(tt.status, []byte("body"))
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, err.Code)
			}
			if err.Retryable != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, err.Retryable)
			}
			if string(err.Body) != "body" {
				t.Errorf("expected body to be kept, got %q", err.Body)
			}
		})
	}

	for _, status := range []int{200, 204, 302, 307} {
		if err := ClassifyStatusCode(status, nil); err != nil {
			t.Errorf("expected nil for %d, got %v", status, err)
		}
	}
}

func TestConfigurationErrors(t *testing.T) {
	tests := []struct {
		err   *Error
		check func(error) bool
		kind  string
	}{
		{NewUnknownTargetError("t1"), IsUnknownTarget, "target"},
		{NewUnknownAuthenticatorError("a1"), IsUnknownAuthenticator, "authenticator"},
		{NewUnknownTrustStoreError("ts"), IsUnknownTrustStore, "trust store"},
	}
	for _, tt := range tests {
		if !tt.check(tt.err) {
			t.Errorf("%s: predicate did not match", tt.kind)
		}
		if !apperrors.HasCode(tt.err, apperrors.ErrCodeUnknownReference) {
			t.Errorf("%s: expected unknown reference cause", tt.kind)
		}
		if !strings.Contains(tt.err.Error(), tt.kind) {
			t.Errorf("%s: unexpected message %q", tt.kind, tt.err.Error())
		}
		if IsRetryable(tt.err) {
			t.Errorf("%s: configuration errors are not retryable", tt.kind)
		}
	}
}

func TestError_Wrapping(t *testing.T) {
	cause := errors.New("dial failed")
	err := fmt.Errorf("outer: %w", NewConnectionError(cause))

	if !IsConnection(err) {
		t.Error("expected wrapped connection error to match")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable")
	}
	if IsTimeout(err) {
		t.Error("did not expect timeout")
	}

	build := NewClientBuildError("configure transport", cause)
	if got := build.Error(); got != "httpclient: client_build: configure transport: dial failed" {
		t.Errorf("unexpected message %q", got)
	}
	status := ClassifyStatusCode(404, nil)
	if got := status.Error(); got != "httpclient: not_found (HTTP 404): HTTP 404" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestErrorCode_String(t *testing.T) {
	if ErrCodeUnknownTrustStore.String() != "unknown_trust_store" {
		t.Errorf("unexpected %s", ErrCodeUnknownTrustStore)
	}
	if ErrorCode(99).String() != "unknown" {
		t.Errorf("unexpected %s", ErrorCode(99))
	}
}
