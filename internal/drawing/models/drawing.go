package models

// ============================================================
// Stored Drawing
// ============================================================

type Drawing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Document    string `json:"-"`
	ObjectCount int    `json:"object_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
