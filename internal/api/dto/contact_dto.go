package dto

import "time"

// ContactRequest payload for the public contact form.
type ContactRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	Message      string `json:"message"`
}

// ContactMessageResponse is the admin-facing shape of a submission.
type ContactMessageResponse struct {
	ID           string    `json:"_id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	EmailAddress string    `json:"emailAddress"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ContactListResponse is one page of submissions with the pre-pagination
// total.
type ContactListResponse struct {
	ContactMessages []ContactMessageResponse `json:"contactMessages"`
	Total           int                      `json:"total"`
	Page            int                      `json:"page"`
	PerPage         int                      `json:"perPage"`
}
