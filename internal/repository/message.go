package repository

import (
	"context"

	"tradepost/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for buyer-seller message operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	ListByGoodsForUser(ctx context.Context, goodsID, userID uint) ([]*models.Message, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error)
	MarkRead(ctx context.Context, id uint) error
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		First(message, message.ID).Error
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListByGoodsForUser returns the conversation on a listing visible to userID,
// oldest first. Only messages the user sent or received are included.
func (r *messageRepository) ListByGoodsForUser(ctx context.Context, goodsID, userID uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Where("goods_id = ? AND (sender_id = ? OR receiver_id = ?)", goodsID, userID, userID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// ListForUser returns every message the user sent or received, newest first.
func (r *messageRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}
