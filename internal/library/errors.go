// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSubjectNotFound     = errors.New("subject not found")
	ErrInvalidResourceType = errors.New("invalid resource type")
	ErrInvalidTheme        = errors.New("invalid theme")
	ErrValidation          = errors.New("validation error")
	// ErrStorageUnavailable wraps every failure of the storage medium.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// FieldError describes a problem with one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists the fields a draft was rejected for.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return "validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ValidateDraft checks the fields a user must supply before a resource is
// added. AddResource does not call it: presentation code must, and the rest
// of the library tolerates drafts that skipped it.
func ValidateDraft(d ResourceDraft) error {
	var errs []FieldError
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "is required"})
	}
	if strings.TrimSpace(d.URL) == "" {
		errs = append(errs, FieldError{Field: "url", Message: "is required"})
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}
