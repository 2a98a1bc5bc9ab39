package model

import "time"

// Service is a company service card shown on the public site, with
// bilingual titles and descriptions.
type Service struct {
	ID            int64     `json:"id" db:"id"`
	TitleEN       string    `json:"title_en" db:"title_en"`
	TitleAR       string    `json:"title_ar" db:"title_ar"`
	DescriptionEN string    `json:"description_en" db:"description_en"`
	DescriptionAR string    `json:"description_ar" db:"description_ar"`
	Icon          string    `json:"icon" db:"icon"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	SortOrder     int       `json:"sort_order" db:"sort_order"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
