package dto

import "time"

// TeamMemberResponse is the public shape of a team member.
type TeamMemberResponse struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TeamListResponse is one page of team members with the pre-pagination total.
type TeamListResponse struct {
	TeamMembers []TeamMemberResponse `json:"teamMembers"`
	Total       int                  `json:"total"`
	Page        int                  `json:"page"`
	PerPage     int                  `json:"perPage"`
}
