// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package library

import (
	"github.com/google/uuid"
)

// NewID returns a UUIDv7: ordered by creation time, with enough random bits
// that ids minted within the same millisecond do not collide.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
