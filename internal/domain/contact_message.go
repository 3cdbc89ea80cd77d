package domain

import "time"

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	ID           string
	FirstName    string
	LastName     string
	EmailAddress string
	Message      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
