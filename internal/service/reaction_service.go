package service

import (
	"context"
	"errors"

	"tradepost/internal/models"
	"tradepost/internal/repository"

	"gorm.io/gorm"
)

type ReactionService struct {
	goodsRepo    repository.GoodsRepository
	reactionRepo repository.ReactionRepository
}

func NewReactionService(goodsRepo repository.GoodsRepository, reactionRepo repository.ReactionRepository) *ReactionService {
	return &ReactionService{goodsRepo: goodsRepo, reactionRepo: reactionRepo}
}

func (s *ReactionService) ensureGoodsExists(ctx context.Context, goodsID, userID uint) error {
	if _, err := s.goodsRepo.GetByID(ctx, goodsID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Goods", goodsID)
		}
		return err
	}
	return nil
}

func (s *ReactionService) Like(ctx context.Context, userID, goodsID uint) error {
	if err := s.ensureGoodsExists(ctx, goodsID, userID); err != nil {
		return err
	}
	if err := s.reactionRepo.Like(ctx, goodsID, userID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.NewConflictError("Already liked")
		}
		return err
	}
	return nil
}

func (s *ReactionService) Unlike(ctx context.Context, userID, goodsID uint) error {
	if err := s.ensureGoodsExists(ctx, goodsID, userID); err != nil {
		return err
	}
	if err := s.reactionRepo.Unlike(ctx, goodsID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewConflictError("Not liked yet")
		}
		return err
	}
	return nil
}

func (s *ReactionService) Favorite(ctx context.Context, userID, goodsID uint) error {
	if err := s.ensureGoodsExists(ctx, goodsID, userID); err != nil {
		return err
	}
	if err := s.reactionRepo.Favorite(ctx, goodsID, userID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.NewConflictError("Already favorited")
		}
		return err
	}
	return nil
}

func (s *ReactionService) Unfavorite(ctx context.Context, userID, goodsID uint) error {
	if err := s.ensureGoodsExists(ctx, goodsID, userID); err != nil {
		return err
	}
	if err := s.reactionRepo.Unfavorite(ctx, goodsID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewConflictError("Not favorited yet")
		}
		return err
	}
	return nil
}

// ListFavorites returns the goods the user has favorited, most recent first.
func (s *ReactionService) ListFavorites(ctx context.Context, userID uint, limit, offset int) ([]*models.Goods, error) {
	return s.reactionRepo.ListFavoriteGoods(ctx, userID, limit, offset)
}
