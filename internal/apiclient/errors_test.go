package apiclient

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAPIErrorShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail string", `{"detail":"Email already registered"}`, "Email already registered"},
		{"detail list", `{"detail":[{"loc":["body","email"],"msg":"field required"},{"msg":"value is not a valid email"}]}`, "field required, value is not a valid email"},
		{"error field", `{"error":"rate limited"}`, "rate limited"},
		{"not json", `<html>oops</html>`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newAPIError(400, []byte(tt.body)).Detail; got != tt.want {
				t.Errorf("Detail = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unknown error occurred"},
		{"detail wins", &APIError{Status: 404, Detail: "NGO not found"}, "NGO not found"},
		{"404", &APIError{Status: 404}, "Resource not found"},
		{"401", &APIError{Status: 401}, "Unauthorized. Please login again."},
		{"403", &APIError{Status: 403}, "You do not have permission to perform this action"},
		{"500", &APIError{Status: 500}, "Server error. Please try again later."},
		{"other status", &APIError{Status: 418}, "backend returned 418"},
		{"wrapped", fmt.Errorf("failed to get: %w", &APIError{Status: 404}), "Resource not found"},
		{"expired", fmt.Errorf("%w: gone", ErrSessionExpired), "Unauthorized. Please login again."},
		{"plain", errors.New("dial tcp: refused"), "dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	if StatusOf(errors.New("x")) != 0 {
		t.Error("non-API errors have no status")
	}
	if !IsNotFound(fmt.Errorf("wrap: %w", &APIError{Status: 404})) {
		t.Error("IsNotFound should see through wrapping")
	}
}
