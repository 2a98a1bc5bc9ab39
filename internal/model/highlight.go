package model

import "time"

// Highlight is a short bilingual selling point shown on the public site.
type Highlight struct {
	ID        int64     `json:"id" db:"id"`
	TextEN    string    `json:"text_en" db:"text_en"`
	TextAR    string    `json:"text_ar" db:"text_ar"`
	Icon      string    `json:"icon" db:"icon"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
