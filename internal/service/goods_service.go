package service

import (
	"context"
	"errors"
	"strings"

	"tradepost/internal/middleware"
	"tradepost/internal/models"
	"tradepost/internal/repository"
	"tradepost/internal/storage"

	"gorm.io/gorm"
)

const (
	maxGoodsNameLen        = 200
	maxGoodsDescriptionLen = 5000
	maxGoodsLocationLen    = 200
	maxGoodsContactLen     = 200
)

type GoodsService struct {
	goodsRepo repository.GoodsRepository
	media     storage.MediaStore
}

type CreateGoodsInput struct {
	SellerID    uint
	Name        string
	Price       float64
	Description string
	Category    string
	Condition   string
	Location    string
	Contact     string
	ImageURL    string
}

// UpdateGoodsInput carries a partial update. Nil fields are left untouched;
// ownership, sold state and timestamps are never client-writable.
type UpdateGoodsInput struct {
	UserID      uint
	GoodsID     uint
	Name        *string
	Price       *float64
	Description *string
	Category    *string
	Condition   *string
	Location    *string
	Contact     *string
	ImageURL    *string
}

func NewGoodsService(goodsRepo repository.GoodsRepository, media storage.MediaStore) *GoodsService {
	return &GoodsService{goodsRepo: goodsRepo, media: media}
}

func (s *GoodsService) CreateGoods(ctx context.Context, in CreateGoodsInput) (*models.Goods, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(name) > maxGoodsNameLen {
		return nil, models.NewValidationError("Name too long (max 200 characters)")
	}
	if in.Price < 0 {
		return nil, models.NewValidationError("Price must not be negative")
	}
	if len(in.Description) > maxGoodsDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 5000 characters)")
	}
	if len(in.Location) > maxGoodsLocationLen {
		return nil, models.NewValidationError("Location too long (max 200 characters)")
	}
	if len(in.Contact) > maxGoodsContactLen {
		return nil, models.NewValidationError("Contact too long (max 200 characters)")
	}

	category := in.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !models.ValidCategory(category) {
		return nil, models.NewValidationError("Invalid category")
	}

	condition := in.Condition
	if condition == "" {
		condition = models.ConditionGood
	}
	if !models.ValidCondition(condition) {
		return nil, models.NewValidationError("Invalid condition")
	}

	contact := in.Contact
	if contact == "" {
		contact = models.DefaultContact
	}

	sellerID := in.SellerID
	goods := &models.Goods{
		Name:        name,
		Price:       in.Price,
		Description: in.Description,
		Category:    category,
		Condition:   condition,
		Location:    in.Location,
		Contact:     contact,
		ImageURL:    in.ImageURL,
		SellerID:    &sellerID,
	}
	if err := s.goodsRepo.Create(ctx, goods); err != nil {
		return nil, err
	}

	return s.goodsRepo.GetByID(ctx, goods.ID, in.SellerID)
}

func (s *GoodsService) GetGoods(ctx context.Context, id uint, currentUserID uint) (*models.Goods, error) {
	goods, err := s.goodsRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Goods", id)
		}
		return nil, err
	}
	return goods, nil
}

// ListGoods returns unsold listings, newest first.
func (s *GoodsService) ListGoods(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Goods, error) {
	return s.goodsRepo.ListUnsold(ctx, limit, offset, currentUserID)
}

// ListPublished returns everything the user has listed, sold or not.
func (s *GoodsService) ListPublished(ctx context.Context, userID uint, limit, offset int) ([]*models.Goods, error) {
	return s.goodsRepo.ListBySeller(ctx, userID, limit, offset)
}

// ListBought returns the goods the user has purchased.
func (s *GoodsService) ListBought(ctx context.Context, userID uint, limit, offset int) ([]*models.Goods, error) {
	return s.goodsRepo.ListByBuyer(ctx, userID, limit, offset)
}

func (s *GoodsService) UpdateGoods(ctx context.Context, in UpdateGoodsInput) (*models.Goods, error) {
	goods, err := s.goodsRepo.GetByID(ctx, in.GoodsID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Goods", in.GoodsID)
		}
		return nil, err
	}
	if goods.SellerID == nil || *goods.SellerID != in.UserID {
		return nil, models.NewForbiddenError("Only the seller can update this listing")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Name must not be empty")
		}
		if len(name) > maxGoodsNameLen {
			return nil, models.NewValidationError("Name too long (max 200 characters)")
		}
		goods.Name = name
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, models.NewValidationError("Price must not be negative")
		}
		goods.Price = *in.Price
	}
	if in.Description != nil {
		if len(*in.Description) > maxGoodsDescriptionLen {
			return nil, models.NewValidationError("Description too long (max 5000 characters)")
		}
		goods.Description = *in.Description
	}
	if in.Category != nil {
		if !models.ValidCategory(*in.Category) {
			return nil, models.NewValidationError("Invalid category")
		}
		goods.Category = *in.Category
	}
	if in.Condition != nil {
		if !models.ValidCondition(*in.Condition) {
			return nil, models.NewValidationError("Invalid condition")
		}
		goods.Condition = *in.Condition
	}
	if in.Location != nil {
		if len(*in.Location) > maxGoodsLocationLen {
			return nil, models.NewValidationError("Location too long (max 200 characters)")
		}
		goods.Location = *in.Location
	}
	if in.Contact != nil {
		contact := *in.Contact
		if contact == "" {
			contact = models.DefaultContact
		}
		if len(contact) > maxGoodsContactLen {
			return nil, models.NewValidationError("Contact too long (max 200 characters)")
		}
		goods.Contact = contact
	}
	if in.ImageURL != nil {
		goods.ImageURL = *in.ImageURL
	}

	if err := s.goodsRepo.Update(ctx, goods); err != nil {
		return nil, err
	}
	return s.goodsRepo.GetByID(ctx, goods.ID, in.UserID)
}

// DeleteGoods removes a listing. Only the seller may delete, and only after
// the item has sold; an active listing is withdrawn by selling it or leaving
// it up, never by deletion.
func (s *GoodsService) DeleteGoods(ctx context.Context, userID, goodsID uint) error {
	goods, err := s.goodsRepo.GetByID(ctx, goodsID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Goods", goodsID)
		}
		return err
	}
	if goods.SellerID == nil || *goods.SellerID != userID {
		return models.NewForbiddenError("Only the seller can delete this listing")
	}
	if !goods.IsSold {
		return models.NewConflictError("Only sold goods can be deleted")
	}

	if err := s.goodsRepo.Delete(ctx, goodsID); err != nil {
		return err
	}

	if s.media != nil && goods.ImageURL != "" {
		if err := s.media.Remove(goods.ImageURL); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove goods image",
				"goods_id", goodsID, "error", err)
		}
	}
	return nil
}
