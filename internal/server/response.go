// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mtreilly/math-error/internal/library"
)

type errorBody struct {
	Error  string               `json:"error"`
	Fields []library.FieldError `json:"fields,omitempty"`
}

// writeError maps library errors onto status codes. Unknown errors are
// reported as 500 without their message.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *library.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, errorBody{Error: "validation failed", Fields: ve.Errors})
	case errors.Is(err, library.ErrSubjectNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, library.ErrInvalidResourceType),
		errors.Is(err, library.ErrInvalidTheme),
		errors.Is(err, library.ErrValidation):
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, errorBody{Error: what + " not found"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: msg})
}
