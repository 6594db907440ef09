package service

import (
	"context"
	"errors"
	"strings"

	"tradepost/internal/models"
	"tradepost/internal/repository"

	"gorm.io/gorm"
)

type CommentService struct {
	goodsRepo   repository.GoodsRepository
	commentRepo repository.CommentRepository
}

type CreateCommentInput struct {
	UserID  uint
	GoodsID uint
	Content string
	Rating  int
}

func NewCommentService(goodsRepo repository.GoodsRepository, commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{goodsRepo: goodsRepo, commentRepo: commentRepo}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > models.MaxCommentLen {
		return nil, models.NewValidationError("Content too long (max 500 characters)")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, models.NewValidationError("Rating must be between 1 and 5")
	}

	if _, err := s.goodsRepo.GetByID(ctx, in.GoodsID, in.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Goods", in.GoodsID)
		}
		return nil, err
	}

	comment := &models.Comment{
		GoodsID: in.GoodsID,
		UserID:  in.UserID,
		Content: content,
		Rating:  in.Rating,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a listing's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, goodsID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.goodsRepo.GetByID(ctx, goodsID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Goods", goodsID)
		}
		return nil, err
	}
	return s.commentRepo.ListByGoods(ctx, goodsID, limit, offset)
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return err
	}
	if comment.UserID != userID {
		return models.NewForbiddenError("Only the author can delete this comment")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
