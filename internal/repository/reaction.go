package repository

import (
	"context"

	"tradepost/internal/cache"
	"tradepost/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for like and favorite operations.
// Both relations are unique per (goods, user) pair; duplicate inserts surface
// as ErrDuplicate and removals of absent rows as gorm.ErrRecordNotFound.
type ReactionRepository interface {
	Like(ctx context.Context, goodsID, userID uint) error
	Unlike(ctx context.Context, goodsID, userID uint) error
	Favorite(ctx context.Context, goodsID, userID uint) error
	Unfavorite(ctx context.Context, goodsID, userID uint) error
	ListFavoriteGoods(ctx context.Context, userID uint, limit, offset int) ([]*models.Goods, error)
}

// reactionRepository implements ReactionRepository
type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Like(ctx context.Context, goodsID, userID uint) error {
	like := models.Like{GoodsID: goodsID, UserID: userID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	// DoNothing swallows the conflict; zero rows means the pair already exists.
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	cache.InvalidateGoods(ctx, goodsID)
	return nil
}

func (r *reactionRepository) Unlike(ctx context.Context, goodsID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("goods_id = ? AND user_id = ?", goodsID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateGoods(ctx, goodsID)
	return nil
}

func (r *reactionRepository) Favorite(ctx context.Context, goodsID, userID uint) error {
	fav := models.Favorite{GoodsID: goodsID, UserID: userID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	cache.InvalidateGoods(ctx, goodsID)
	return nil
}

func (r *reactionRepository) Unfavorite(ctx context.Context, goodsID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("goods_id = ? AND user_id = ?", goodsID, userID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateGoods(ctx, goodsID)
	return nil
}

// ListFavoriteGoods returns the caller's favorited listings, most recently
// favorited first. Soft-deleted goods drop out via the join's implicit scope.
func (r *reactionRepository) ListFavoriteGoods(ctx context.Context, userID uint, limit, offset int) ([]*models.Goods, error) {
	var goods []*models.Goods
	err := r.db.WithContext(ctx).
		Select("goods.*, "+
			"(SELECT COUNT(*) FROM comments WHERE comments.goods_id = goods.id AND comments.deleted_at IS NULL) as comments_count, "+
			"(SELECT COUNT(*) FROM likes WHERE likes.goods_id = goods.id) as likes_count, "+
			"(SELECT COUNT(*) FROM favorites WHERE favorites.goods_id = goods.id) as favorites_count, "+
			"EXISTS(SELECT 1 FROM likes WHERE likes.goods_id = goods.id AND likes.user_id = ?) as liked, "+
			"TRUE as favorited", userID).
		Joins("JOIN favorites ON favorites.goods_id = goods.id AND favorites.user_id = ?", userID).
		Preload("Seller").
		Order("favorites.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&goods).Error
	return goods, err
}
