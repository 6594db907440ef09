package repository

import (
	"context"
	"time"

	"tradepost/internal/cache"
	"tradepost/internal/models"

	"gorm.io/gorm"
)

// GoodsRepository defines the interface for goods data operations
type GoodsRepository interface {
	Create(ctx context.Context, goods *models.Goods) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Goods, error)
	ListUnsold(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Goods, error)
	ListBySeller(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Goods, error)
	ListByBuyer(ctx context.Context, buyerID uint, limit, offset int) ([]*models.Goods, error)
	Update(ctx context.Context, goods *models.Goods) error
	Delete(ctx context.Context, id uint) error
	MarkSold(ctx context.Context, goodsID, buyerID uint, soldAt time.Time) (bool, error)
}

// goodsRepository implements GoodsRepository
type goodsRepository struct {
	db *gorm.DB
}

// NewGoodsRepository creates a new goods repository
func NewGoodsRepository(db *gorm.DB) GoodsRepository {
	return &goodsRepository{db: db}
}

func (r *goodsRepository) Create(ctx context.Context, goods *models.Goods) error {
	return r.db.WithContext(ctx).Create(goods).Error
}

// GetByID loads a goods projection with computed counts. Anonymous reads go
// through the cache; reads for a known user always hit the store so the
// liked/favorited flags are fresh.
func (r *goodsRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Goods, error) {
	var goods models.Goods

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.GoodsKey(id), &goods, cache.GoodsTTL, func() error {
			return r.applyGoodsDetails(r.db.WithContext(ctx), 0).
				Preload("Seller").
				Preload("Buyer").
				First(&goods, id).Error
		})
	} else {
		err = r.applyGoodsDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Seller").
			Preload("Buyer").
			First(&goods, id).Error
	}

	if err != nil {
		return nil, err
	}
	return &goods, nil
}

func (r *goodsRepository) ListUnsold(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Goods, error) {
	var goods []*models.Goods
	err := r.applyGoodsDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Seller").
		Where("is_sold = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&goods).Error
	return goods, err
}

func (r *goodsRepository) ListBySeller(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Goods, error) {
	var goods []*models.Goods
	err := r.applyGoodsDetails(r.db.WithContext(ctx), sellerID).
		Preload("Seller").
		Preload("Buyer").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&goods).Error
	return goods, err
}

func (r *goodsRepository) ListByBuyer(ctx context.Context, buyerID uint, limit, offset int) ([]*models.Goods, error) {
	var goods []*models.Goods
	err := r.applyGoodsDetails(r.db.WithContext(ctx), buyerID).
		Preload("Seller").
		Where("buyer_id = ?", buyerID).
		Order("sold_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&goods).Error
	return goods, err
}

// applyGoodsDetails adds subqueries to fetch counts and liked/favorited
// status in a single query.
func (r *goodsRepository) applyGoodsDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "goods.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.goods_id = goods.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.goods_id = goods.id) as likes_count, " +
		"(SELECT COUNT(*) FROM favorites WHERE favorites.goods_id = goods.id) as favorites_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.goods_id = goods.id AND likes.user_id = ?) as liked"+
			", EXISTS(SELECT 1 FROM favorites WHERE favorites.goods_id = goods.id AND favorites.user_id = ?) as favorited",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", FALSE as liked, FALSE as favorited")
}

// Update writes the listing's editable columns only. Ownership and sale
// state never travel through this path, so a stale row loaded before a
// concurrent purchase cannot revert the sale when the seller saves an edit.
func (r *goodsRepository) Update(ctx context.Context, goods *models.Goods) error {
	err := r.db.WithContext(ctx).
		Model(goods).
		Select("name", "price", "description", "category", "condition", "location", "contact", "image_url").
		Updates(goods).Error
	if err != nil {
		return err
	}
	cache.InvalidateGoods(ctx, goods.ID)
	return nil
}

func (r *goodsRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Goods{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateGoods(ctx, id)
	return nil
}

// MarkSold performs the purchase transition as a single-row compare-and-set:
// the update only applies while is_sold is still false. Returns false when
// the row was already sold (or gone), which callers surface as a conflict.
func (r *goodsRepository) MarkSold(ctx context.Context, goodsID, buyerID uint, soldAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Goods{}).
		Where("id = ? AND is_sold = ?", goodsID, false).
		Updates(map[string]interface{}{
			"buyer_id": buyerID,
			"is_sold":  true,
			"sold_at":  soldAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	cache.InvalidateGoods(ctx, goodsID)
	return true, nil
}
