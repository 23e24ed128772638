package models

import "time"

type ShortURL struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	URL       string    `json:"url" gorm:"column:url;uniqueIndex;size:2048;not null"`
	Shortcode string    `json:"shortcode" gorm:"column:shortcode;uniqueIndex;size:32;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (ShortURL) TableName() string {
	return "short_urls"
}
