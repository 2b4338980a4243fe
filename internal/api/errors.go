package api

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ConnectivityMessage is shown when the backend could not be reached.
	ConnectivityMessage = "Could not reach the program service. Check your connection and try again."
	// GenericMessage is shown for failures without a usable detail.
	GenericMessage = "Something went wrong while creating your program. Please try again."
)

// FieldProblem is one entry of a structured validation response.
type FieldProblem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// Path joins the location segments with dots.
func (p FieldProblem) Path() string {
	parts := make([]string, 0, len(p.Loc))
	for _, segment := range p.Loc {
		switch v := segment.(type) {
		case string:
			parts = append(parts, v)
		case float64:
			if v == float64(int64(v)) {
				parts = append(parts, fmt.Sprintf("%d", int64(v)))
			} else {
				parts = append(parts, fmt.Sprintf("%g", v))
			}
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, ".")
}

// ValidationError carries per-field problems reported by the backend.
type ValidationError struct {
	Status   int
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	entries := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		entries = append(entries, fmt.Sprintf("%s: %s", p.Path(), p.Msg))
	}
	return strings.Join(entries, "; ")
}

// DetailError carries a plain string detail from the backend.
type DetailError struct {
	Status int
	Detail string
}

func (e *DetailError) Error() string {
	return e.Detail
}

// ConnectivityError means no response was received.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("api: no response: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// StatusError is a non-success response without a recognizable body.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("api: unexpected status %d: %s", e.Status, e.Body)
}

// UserMessage converts a client error into the single notification shown
// to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var validation *ValidationError
	if errors.As(err, &validation) && len(validation.Problems) > 0 {
		return validation.Error()
	}
	var detail *DetailError
	if errors.As(err, &detail) && strings.TrimSpace(detail.Detail) != "" {
		return detail.Detail
	}
	var conn *ConnectivityError
	if errors.As(err, &conn) {
		return ConnectivityMessage
	}
	return GenericMessage
}
