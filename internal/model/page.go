package model

import "time"

// Page is a static content page addressed by slug. Pages are seeded by
// migration and edited in place; there is no create or delete path.
type Page struct {
	ID        int64     `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	TitleEN   string    `json:"title_en" db:"title_en"`
	TitleAR   string    `json:"title_ar" db:"title_ar"`
	ContentEN string    `json:"content_en" db:"content_en"`
	ContentAR string    `json:"content_ar" db:"content_ar"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
