package models

// Island represents a location a ferry route can call at
type Island struct {
	ID        string  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Code      string  `json:"code" db:"code"` // Short code used on schedules, e.g. "KLF"
	Zone      *string `json:"zone,omitempty" db:"zone"`
	CreatedAt int64   `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt int64   `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// CreateIslandRequest is the request body for POST /api/islands
type CreateIslandRequest struct {
	Name string  `json:"name"`
	Code string  `json:"code"`
	Zone *string `json:"zone,omitempty"`
}

// UpdateIslandRequest is the request body for PATCH /api/islands/:id
type UpdateIslandRequest struct {
	Name *string `json:"name,omitempty"`
	Code *string `json:"code,omitempty"`
	Zone *string `json:"zone,omitempty"`
}
