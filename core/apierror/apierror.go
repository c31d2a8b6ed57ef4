// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package apierror is the error taxonomy of the jobly API.

Models raise bad request and not found errors, the access middleware raises
unauthorized errors. Everything else is an internal error. All of them are
turned into an HTTP response by Write, the only place where errors become
status codes:

	{"error": {"message": "No company: nope", "status": 404}}

Validation errors carry a list of messages instead of a single one.
*/
package apierror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/relabs-tech/jobly/core/logger"
)

// Error is an error with an HTTP status
type Error struct {
	Status   int
	Message  string
	Messages []string
}

func (e *Error) Error() string {
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, "; ")
	}
	return e.Message
}

// NewBadRequest returns an invalid request error
func NewBadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// NewBadRequestList returns an invalid request error with a list of messages,
// typically the result of a schema validation
func NewBadRequestList(messages []string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Bad Request", Messages: messages}
}

// NewUnauthorized returns an unauthorized error
func NewUnauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "Unauthorized"}
}

// NewNotFound returns a not found error
func NewNotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Status returns the HTTP status for err. Errors which are not an *Error
// anywhere in their chain are internal errors.
func Status(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}

// Is returns true if err is an *Error with the given status
func Is(err error, status int) bool {
	return err != nil && Status(err) == status
}

type body struct {
	Error struct {
		Message interface{} `json:"message"`
		Status  int         `json:"status"`
	} `json:"error"`
}

// Write writes err as JSON error response. Internal errors are logged and
// answered with a generic message, their details never leave the process.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	var b body
	var apiErr *Error
	if errors.As(err, &apiErr) {
		b.Error.Status = apiErr.Status
		if len(apiErr.Messages) > 0 {
			b.Error.Message = apiErr.Messages
		} else {
			b.Error.Message = apiErr.Message
		}
	} else {
		logger.FromContext(r.Context()).WithError(err).Errorln("Error 5000: internal error for", r.Method, r.URL)
		b.Error.Status = http.StatusInternalServerError
		b.Error.Message = http.StatusText(http.StatusInternalServerError)
	}

	jsonData, _ := json.Marshal(b)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.Error.Status)
	w.Write(jsonData)
}

// NotFoundHandler answers unknown routes in the JSON error format
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Write(w, r, NewNotFound("Not Found"))
	})
}

// MethodNotAllowedHandler answers known routes with a wrong method in the JSON error format
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Write(w, r, &Error{Status: http.StatusMethodNotAllowed, Message: "Method Not Allowed"})
	})
}
