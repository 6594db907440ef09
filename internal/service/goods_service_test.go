package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"tradepost/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// goodsRepoStub is a stub for repository.GoodsRepository.
type goodsRepoStub struct {
	createFn       func(context.Context, *models.Goods) error
	getByIDFn      func(context.Context, uint, uint) (*models.Goods, error)
	listUnsoldFn   func(context.Context, int, int, uint) ([]*models.Goods, error)
	listBySellerFn func(context.Context, uint, int, int) ([]*models.Goods, error)
	listByBuyerFn  func(context.Context, uint, int, int) ([]*models.Goods, error)
	updateFn       func(context.Context, *models.Goods) error
	deleteFn       func(context.Context, uint) error
	markSoldFn     func(context.Context, uint, uint, time.Time) (bool, error)
}

func (s *goodsRepoStub) Create(ctx context.Context, goods *models.Goods) error {
	return s.createFn(ctx, goods)
}
func (s *goodsRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Goods, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *goodsRepoStub) ListUnsold(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Goods, error) {
	return s.listUnsoldFn(ctx, limit, offset, currentUserID)
}
func (s *goodsRepoStub) ListBySeller(ctx context.Context, sellerID uint, limit, offset int) ([]*models.Goods, error) {
	return s.listBySellerFn(ctx, sellerID, limit, offset)
}
func (s *goodsRepoStub) ListByBuyer(ctx context.Context, buyerID uint, limit, offset int) ([]*models.Goods, error) {
	return s.listByBuyerFn(ctx, buyerID, limit, offset)
}
func (s *goodsRepoStub) Update(ctx context.Context, goods *models.Goods) error {
	return s.updateFn(ctx, goods)
}
func (s *goodsRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *goodsRepoStub) MarkSold(ctx context.Context, goodsID, buyerID uint, soldAt time.Time) (bool, error) {
	return s.markSoldFn(ctx, goodsID, buyerID, soldAt)
}

func noopGoodsRepo() *goodsRepoStub {
	return &goodsRepoStub{
		createFn: func(_ context.Context, g *models.Goods) error {
			g.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Goods, error) {
			sellerID := uint(1)
			return &models.Goods{ID: id, Name: "Desk", Price: 50, SellerID: &sellerID}, nil
		},
		listUnsoldFn: func(_ context.Context, _, _ int, _ uint) ([]*models.Goods, error) {
			return nil, nil
		},
		listBySellerFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Goods, error) {
			return nil, nil
		},
		listByBuyerFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Goods, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Goods) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		markSoldFn: func(_ context.Context, _, _ uint, _ time.Time) (bool, error) {
			return true, nil
		},
	}
}

// mediaStoreStub records removed URLs.
type mediaStoreStub struct {
	removed []string
}

func (m *mediaStoreStub) Save(originalName string, r io.Reader) (string, error) {
	return "/media/goods/stub.jpg", nil
}
func (m *mediaStoreStub) Remove(url string) error {
	m.removed = append(m.removed, url)
	return nil
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertErrorCode(t, err, models.CodeValidation)
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestGoodsService_CreateGoods_Validation(t *testing.T) {
	t.Parallel()

	svc := NewGoodsService(noopGoodsRepo(), nil)
	ctx := context.Background()

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateGoods(ctx, CreateGoodsInput{SellerID: 1, Price: 10})
		assertValidationError(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateGoods(ctx, CreateGoodsInput{SellerID: 1, Name: "Desk", Price: -1})
		assertValidationError(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateGoods(ctx, CreateGoodsInput{
			SellerID: 1, Name: "Desk", Price: 10, Category: "weapons",
		})
		assertValidationError(t, err)
	})

	t.Run("unknown condition", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateGoods(ctx, CreateGoodsInput{
			SellerID: 1, Name: "Desk", Price: 10, Condition: "mint",
		})
		assertValidationError(t, err)
	})

	t.Run("name too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateGoods(ctx, CreateGoodsInput{
			SellerID: 1, Name: strings.Repeat("x", 201), Price: 10,
		})
		assertValidationError(t, err)
	})
}

func TestGoodsService_CreateGoods_Defaults(t *testing.T) {
	t.Parallel()

	var created *models.Goods
	repo := noopGoodsRepo()
	repo.createFn = func(_ context.Context, g *models.Goods) error {
		g.ID = 7
		created = g
		return nil
	}

	svc := NewGoodsService(repo, nil)
	_, err := svc.CreateGoods(context.Background(), CreateGoodsInput{
		SellerID: 3,
		Name:     "  Standing Desk  ",
		Price:    0, // free listings are allowed
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Standing Desk", created.Name)
	assert.Equal(t, models.CategoryOther, created.Category)
	assert.Equal(t, models.ConditionGood, created.Condition)
	assert.Equal(t, models.DefaultContact, created.Contact)
	require.NotNil(t, created.SellerID)
	assert.Equal(t, uint(3), *created.SellerID)
}

func TestGoodsService_UpdateGoods_Ownership(t *testing.T) {
	t.Parallel()

	repo := noopGoodsRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Goods, error) {
		sellerID := uint(10)
		return &models.Goods{ID: id, Name: "Desk", SellerID: &sellerID}, nil
	}

	svc := NewGoodsService(repo, nil)
	name := "New name"
	_, err := svc.UpdateGoods(context.Background(), UpdateGoodsInput{
		UserID: 1, GoodsID: 5, Name: &name,
	})
	assertErrorCode(t, err, models.CodeForbidden)
}

func TestGoodsService_UpdateGoods_NotFound(t *testing.T) {
	t.Parallel()

	repo := noopGoodsRepo()
	repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Goods, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewGoodsService(repo, nil)
	_, err := svc.UpdateGoods(context.Background(), UpdateGoodsInput{UserID: 1, GoodsID: 99})
	assertErrorCode(t, err, models.CodeNotFound)
}

func TestGoodsService_DeleteGoods(t *testing.T) {
	t.Parallel()

	t.Run("non-seller forbidden", func(t *testing.T) {
		t.Parallel()
		repo := noopGoodsRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Goods, error) {
			sellerID := uint(10)
			return &models.Goods{ID: id, SellerID: &sellerID, IsSold: true}, nil
		}
		svc := NewGoodsService(repo, nil)
		err := svc.DeleteGoods(context.Background(), 1, 5)
		assertErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("unsold listing rejected", func(t *testing.T) {
		t.Parallel()
		repo := noopGoodsRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Goods, error) {
			sellerID := uint(1)
			return &models.Goods{ID: id, SellerID: &sellerID, IsSold: false}, nil
		}
		svc := NewGoodsService(repo, nil)
		err := svc.DeleteGoods(context.Background(), 1, 5)
		assertErrorCode(t, err, models.CodeConflict)
	})

	t.Run("sold listing deleted and image removed", func(t *testing.T) {
		t.Parallel()
		deleted := false
		repo := noopGoodsRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Goods, error) {
			sellerID := uint(1)
			return &models.Goods{
				ID: id, SellerID: &sellerID, IsSold: true,
				ImageURL: "/media/goods/abc.jpg",
			}, nil
		}
		repo.deleteFn = func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		}
		media := &mediaStoreStub{}
		svc := NewGoodsService(repo, media)
		err := svc.DeleteGoods(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, []string{"/media/goods/abc.jpg"}, media.removed)
	})
}
