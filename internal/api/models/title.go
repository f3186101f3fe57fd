package models

import "time"

type Title struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"not null;size:256"`
	Year        int     `json:"year" gorm:"not null;index"`
	Description *string `json:"description,omitempty"`
	// Deleting a category detaches its titles instead of cascading.
	CategoryID *int64     `json:"-" gorm:"index"`
	Category   *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	CreatedAt  *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`

	Genres []Genre `json:"genre,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`

	// Average review score, filled by the repository from an aggregate
	// query. Nil when the title has no reviews.
	Rating *float64 `json:"rating" gorm:"->;-:migration"`
}

func (Title) TableName() string {
	return "titles"
}
