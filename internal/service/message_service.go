package service

import (
	"context"
	"errors"
	"strings"

	"tradepost/internal/models"
	"tradepost/internal/repository"

	"gorm.io/gorm"
)

type MessageService struct {
	goodsRepo   repository.GoodsRepository
	messageRepo repository.MessageRepository
}

type SendMessageInput struct {
	SenderID uint
	GoodsID  uint
	Content  string
}

func NewMessageService(goodsRepo repository.GoodsRepository, messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{goodsRepo: goodsRepo, messageRepo: messageRepo}
}

// SendMessage delivers a message about a listing to its seller. The receiver
// is always the seller; clients cannot address arbitrary users.
func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > models.MaxCommentLen {
		return nil, models.NewValidationError("Content too long (max 500 characters)")
	}

	goods, err := s.goodsRepo.GetByID(ctx, in.GoodsID, in.SenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Goods", in.GoodsID)
		}
		return nil, err
	}
	if goods.SellerID == nil {
		return nil, models.NewValidationError("Listing has no seller to message")
	}
	if *goods.SellerID == in.SenderID {
		return nil, models.NewValidationError("Cannot message yourself")
	}

	message := &models.Message{
		GoodsID:    in.GoodsID,
		SenderID:   in.SenderID,
		ReceiverID: *goods.SellerID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// ListGoodsMessages returns the conversation on a listing that involves the
// caller, oldest first.
func (s *MessageService) ListGoodsMessages(ctx context.Context, userID, goodsID uint) ([]*models.Message, error) {
	if _, err := s.goodsRepo.GetByID(ctx, goodsID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Goods", goodsID)
		}
		return nil, err
	}
	return s.messageRepo.ListByGoodsForUser(ctx, goodsID, userID)
}

// ListUserMessages returns every message the caller sent or received, newest
// first.
func (s *MessageService) ListUserMessages(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error) {
	return s.messageRepo.ListForUser(ctx, userID, limit, offset)
}

// MarkRead marks a received message as read. Messages the caller did not
// receive are reported as not found rather than forbidden so message IDs
// are not probeable.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID uint) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", messageID)
		}
		return nil, err
	}
	if message.ReceiverID != userID {
		return nil, models.NewNotFoundError("Message", messageID)
	}
	if !message.IsRead {
		if err := s.messageRepo.MarkRead(ctx, messageID); err != nil {
			return nil, err
		}
		message.IsRead = true
	}
	return message, nil
}
