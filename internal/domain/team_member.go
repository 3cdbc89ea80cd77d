package domain

import "time"

// TeamMember is a staff profile shown on the website.
type TeamMember struct {
	ID          string
	Name        string
	Role        string
	Description string
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamMemberPatch carries optional fields for a partial update.
type TeamMemberPatch struct {
	Name        *string
	Role        *string
	Description *string
	Image       *string
}
