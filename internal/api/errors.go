// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks failures below the application layer.
	ErrTransport = errors.New("backend request failed")

	// ErrTimeout indicates the request deadline passed. It is always
	// accompanied by ErrTransport.
	ErrTimeout = errors.New("backend request timed out")

	// ErrResponseTooLarge indicates the body exceeded MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")
)

// APIError is an application-level failure: the backend answered with
// "success": false. Message is the server's text, shown to the user as is.
type APIError struct {
	Endpoint string
	Message  string
	// Status is the HTTP status. The backend normally reports application
	// errors with 200, but rate limiting and validation use 4xx.
	Status int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request rejected", e.Endpoint)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

// IsApplicationError reports whether err is (or wraps) an *APIError.
func IsApplicationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsTransportError reports whether err is a transport-tier failure.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// ServerMessage returns the server-provided message of an application error.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message, true
	}
	return "", false
}
