package domain

import "time"

// Project is a portfolio entry shown on the website.
type Project struct {
	ID          string
	Title       string
	Description string
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectPatch carries optional fields for a partial update.
type ProjectPatch struct {
	Title       *string
	Description *string
	Image       *string
}
