package dto

// Error is the body of every non-2xx JSON response.
type Error struct {
	Error string `json:"error" example:"Store not found"`
}
