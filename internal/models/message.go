package models

import "time"

// Message is a note from a prospective buyer to a listing's seller (or the
// seller's reply). The receiver is always derived server-side from the
// listing, never supplied by the client.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GoodsID    uint      `gorm:"not null;index" json:"goods_id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	Sender     User      `gorm:"foreignKey:SenderID" json:"sender"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Receiver   User      `gorm:"foreignKey:ReceiverID" json:"receiver"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}
