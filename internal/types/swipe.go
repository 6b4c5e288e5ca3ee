package types

import (
	"time"
)

// Swipe is one recorded like/dislike. There is deliberately no uniqueness
// constraint on (user_id, article_id): repeated swipes on the same article
// accumulate as separate rows.
type Swipe struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index;column:user_id" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	ArticleID int64     `gorm:"not null;index;column:article_id" json:"articleId"`
	Article   *Article  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ArticleID;references:ID" json:"-"`
	Liked     bool      `gorm:"not null;column:liked" json:"liked"`
	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Swipe) TableName() string {
	return "swipe"
}
