package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Error codes attached to backend failures
const (
	CodeBadRequest  = "ERR_BAD_REQUEST"
	CodeBadResponse = "ERR_BAD_RESPONSE"
	CodeNoContent   = "NO_CONTENT"
	CodeUnexpected  = "ERR_UNEXPECTED_STATUS"
)

// ErrUnauthorized is matched by errors.Is when the backend rejected the
// session's API key
var ErrUnauthorized = errors.New("API key expired")

// Error is a non-success response from the backend
type Error struct {
	Status  int
	Code    string
	Message string // detail message from the backend, may be empty
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d (%s)", e.Status, e.Code)
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// newError classifies a non-success status and extracts the backend detail
func newError(status int, body []byte) *Error {
	e := &Error{Status: status, Message: detailMessage(body)}
	switch {
	case status == http.StatusNoContent:
		e.Code = CodeNoContent
	case status >= 400 && status < 500:
		e.Code = CodeBadRequest
	case status >= 500:
		e.Code = CodeBadResponse
	default:
		e.Code = CodeUnexpected
	}
	return e
}

// detailMessage reads detail.message, or detail when it is a plain string
func detailMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	if msg := gjson.GetBytes(body, "detail.message"); msg.Type == gjson.String {
		return msg.Str
	}
	if detail := gjson.GetBytes(body, "detail"); detail.Type == gjson.String {
		return detail.Str
	}
	return ""
}

// ErrorText returns the text to show the user for a failed request: the
// backend's detail message when there is one, fallback otherwise.
func ErrorText(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
