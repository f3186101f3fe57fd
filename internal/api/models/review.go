package models

import "time"

type Review struct {
	ID      int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID int64  `json:"title_id" gorm:"not null;uniqueIndex:uniq_review_author_title,priority:2"`
	UserID  string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:uniq_review_author_title,priority:1"`
	Text    string `json:"text" gorm:"not null;type:text"`
	// 1..10 inclusive, also validated in the service before persistence.
	Score     int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Title Title `json:"title,omitempty" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
