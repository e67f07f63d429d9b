package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx backend response
type APIError struct {
	Status   int
	Detail   string
	Messages []string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// errorBody covers the backend's error shapes: {"detail": "..."},
// {"detail": [{"msg": "..."}]} and {"error": "..."}
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

type validationItem struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return e
	}
	if eb.Error != "" {
		e.Detail = eb.Error
	}
	if len(eb.Detail) == 0 {
		return e
	}

	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err == nil {
		e.Detail = detail
		return e
	}

	var items []validationItem
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		for _, it := range items {
			msg := it.Msg
			if msg == "" {
				msg = it.Message
			}
			if msg != "" {
				e.Messages = append(e.Messages, msg)
			}
		}
		e.Detail = strings.Join(e.Messages, ", ")
	}
	return e
}

// StatusOf returns the HTTP status of an APIError in err's chain, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a backend 404
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// Message turns err into the text shown to the user
func Message(err error) string {
	if err == nil {
		return "An unknown error occurred"
	}
	if errors.Is(err, ErrSessionExpired) {
		return "Unauthorized. Please login again."
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		switch apiErr.Status {
		case http.StatusNotFound:
			return "Resource not found"
		case http.StatusUnauthorized:
			return "Unauthorized. Please login again."
		case http.StatusForbidden:
			return "You do not have permission to perform this action"
		case http.StatusInternalServerError:
			return "Server error. Please try again later."
		}
		return apiErr.Error()
	}
	return err.Error()
}
