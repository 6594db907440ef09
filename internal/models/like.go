package models

import "time"

// Like represents a user's like on a goods listing.
// The combination of GoodsID and UserID must be unique; likes are hard
// deleted so the unique index stays authoritative.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GoodsID   uint      `gorm:"not null;uniqueIndex:idx_like_goods_user" json:"goods_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_goods_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
