package models

import "time"

// Favorite represents a user's bookmark of a goods listing. At most one per
// (goods, user) pair, enforced the same way as Like.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GoodsID   uint      `gorm:"not null;uniqueIndex:idx_fav_goods_user" json:"goods_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_fav_goods_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
