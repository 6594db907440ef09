package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxCommentLen caps comment and message content length.
const MaxCommentLen = 500

// Comment represents a review left on a goods listing. Rating is constrained
// to the range [1,5].
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	GoodsID   uint           `gorm:"not null;index" json:"goods_id"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Rating    int            `gorm:"not null" json:"rating"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
