package mlflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MLflow error codes the checks care about.
const (
	codeNotFound         = "RESOURCE_DOES_NOT_EXIST"
	codeAlreadyExists    = "RESOURCE_ALREADY_EXISTS"
	codePermissionDenied = "PERMISSION_DENIED"
)

// APIError is an error response from the tracking server, carrying the HTTP
// status together with the MLflow error code and message.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("mlflow: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mlflow: HTTP %d: %s", e.StatusCode, e.Message)
}

func newAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	var payload struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.ErrorCode
		apiErr.Message = payload.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

// IsNotFound reports whether err is the tracking server saying a resource
// does not exist.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == codeNotFound || apiErr.StatusCode == http.StatusNotFound
}

// IsAlreadyExists reports whether err is the tracking server rejecting a
// create for an existing resource.
func IsAlreadyExists(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == codeAlreadyExists
}

// IsPermissionDenied reports whether err is an authorization failure. The
// trace check singles these out: a 403 on export is the failure mode the
// original smoke scripts were written to reproduce.
func IsPermissionDenied(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == codePermissionDenied || apiErr.StatusCode == http.StatusForbidden
}
