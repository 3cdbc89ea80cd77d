package dto

import "time"

// ProjectResponse is the public shape of a project.
type ProjectResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProjectListResponse is one page of projects with the pre-pagination total.
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"perPage"`
}
