package dto

// CreatedResponse carries just the new record id, matching what the admin
// UI expects from create and update endpoints.
type CreatedResponse struct {
	ID string `json:"_id"`
}
