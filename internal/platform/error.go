package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotConnected is returned when an operation needs platform credentials
// but no token is stored for the platform.
var ErrNotConnected = errors.New("not connected to the platform, connect it first")

// APIError is a non-2xx response from a platform API. The upstream message
// is kept verbatim so it can be surfaced to the user unchanged.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("platform API request failed with status %d", e.StatusCode)
}

// NewAPIError builds an APIError from an upstream response. Both platforms
// wrap error text in a "message" field for proxied errors, plain text
// bodies are used as-is.
func NewAPIError(res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))

	var structured struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &structured); err == nil && structured.Message != "" {
		return &APIError{StatusCode: res.StatusCode, Message: structured.Message}
	}

	return &APIError{StatusCode: res.StatusCode, Message: string(body)}
}
