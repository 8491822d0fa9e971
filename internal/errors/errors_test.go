package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "/chat", "busy")

	expected := "API error [400] at /chat: busy"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "/chat", "odd")
	if noStatus.Error() != "API error at /chat: odd" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestAPIError_ServerMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{"server message wins", NewAPIErrorWithBody(503, "Service Unavailable", "/chat", "busy", `{"error":"busy"}`), "busy"},
		{"status text fallback", NewAPIErrorWithBody(503, "Service Unavailable", "/chat", "", "<html>"), "Service Unavailable"},
		{"bare code", NewAPIErrorWithBody(599, "", "/chat", "", ""), "HTTP 599"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.ServerMessage(); got != tt.want {
				t.Errorf("ServerMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkErrorWithEndpoint("send", "/chat", cause)

	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
	if !IsNetworkError(err) {
		t.Error("expected IsNetworkError")
	}
	if !IsNetworkError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("expected IsNetworkError through wrapping")
	}
	if IsServerError(err) {
		t.Error("network error is not a server error")
	}

	bare := NewNetworkErrorWithEndpoint("send", "/chat", nil)
	if bare.Error() != "network error during send at /chat" {
		t.Errorf("Error() = %s", bare.Error())
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutErrorWithEndpoint("/chat", context.DeadlineExceeded)

	if err.Error() != "request timed out: /chat" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !IsTimeoutError(err) {
		t.Error("expected IsTimeoutError")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected DeadlineExceeded through Unwrap")
	}
	if GetEndpoint(err) != "/chat" {
		t.Errorf("GetEndpoint() = %s", GetEndpoint(err))
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("invalid JSON", "body")

	if err.Error() != "parse error at body: invalid JSON" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("expected ParseError to match ErrInvalidResponse")
	}
	if !IsParseError(fmt.Errorf("decode: %w", err)) {
		t.Error("expected IsParseError through wrapping")
	}

	missing := NewMissingFieldError("response")
	if !errors.Is(missing, ErrNoContent) {
		t.Error("expected missing field to match ErrNoContent")
	}
	if !IsParseError(missing) {
		t.Error("missing field is a parse error")
	}
}

func TestInspectors(t *testing.T) {
	apiErr := NewAPIErrorWithBody(500, "Internal Server Error", "/chat", "boom", `{"error":"boom"}`)
	wrapped := fmt.Errorf("send: %w", apiErr)

	if GetHTTPStatus(wrapped) != 500 {
		t.Errorf("GetHTTPStatus() = %d", GetHTTPStatus(wrapped))
	}
	if GetEndpoint(wrapped) != "/chat" {
		t.Errorf("GetEndpoint() = %s", GetEndpoint(wrapped))
	}
	if GetResponseBody(wrapped) != `{"error":"boom"}` {
		t.Errorf("GetResponseBody() = %s", GetResponseBody(wrapped))
	}
	if !IsServerError(wrapped) {
		t.Error("expected IsServerError")
	}

	plain := errors.New("plain")
	if GetHTTPStatus(plain) != 0 || GetEndpoint(plain) != "" || GetResponseBody(plain) != "" {
		t.Error("plain errors carry no details")
	}
	if IsCancelled(plain) {
		t.Error("plain error is not a cancellation")
	}
	if !IsCancelled(fmt.Errorf("abort: %w", ErrCancelled)) {
		t.Error("expected IsCancelled through wrapping")
	}
	if !IsCancelled(context.Canceled) {
		t.Error("expected context.Canceled to count as a cancellation")
	}
}
