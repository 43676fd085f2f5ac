// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which represents a submitted page address, the
// URLCheck struct, which holds the SEO signals captured by a single check,
// and the error values shared between layers.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrURLExists is returned when attempting to save a URL whose name is already stored.
	ErrURLExists = errors.New("url exists")
	// ErrURLNotFound is returned when a URL with the specified id or name cannot be found.
	ErrURLNotFound = errors.New("url not found")
)

// URL represents a page address submitted by a user.
type URL struct {
	ID        int64     // ID is the unique identifier of the URL in the database.
	Name      string    // Name is the normalized absolute URL.
	CreatedAt time.Time // CreatedAt is the timestamp when the URL was added.
}

// URLSummary is a URL together with the outcome of its most recent check.
type URLSummary struct {
	URL
	LastCheckedAt  *time.Time // LastCheckedAt is nil when the URL was never checked.
	LastStatusCode *int       // LastStatusCode is the status code of the most recent check.
}
