package entity

import "time"

// SEO holds the signals extracted from a page. A nil field means the page
// has no such element.
type SEO struct {
	H1          *string
	Title       *string
	Description *string
}

// URLCheck is the result of one successful check of a URL. Checks are
// append-only and never modified after they are saved.
type URLCheck struct {
	ID         int64
	URLID      int64
	StatusCode *int
	SEO
	CreatedAt time.Time
}
