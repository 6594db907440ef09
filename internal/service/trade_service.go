package service

import (
	"context"
	"errors"
	"time"

	"tradepost/internal/models"
	"tradepost/internal/observability"
	"tradepost/internal/repository"

	"gorm.io/gorm"
)

// TradeService owns the purchase transition. A listing sells at most once;
// the repository's conditional update is the arbiter under concurrency and
// the pre-checks here only exist to produce precise error messages.
type TradeService struct {
	goodsRepo repository.GoodsRepository
}

func NewTradeService(goodsRepo repository.GoodsRepository) *TradeService {
	return &TradeService{goodsRepo: goodsRepo}
}

// Purchase marks the listing sold to buyerID and returns the updated goods.
func (s *TradeService) Purchase(ctx context.Context, buyerID, goodsID uint) (*models.Goods, error) {
	goods, err := s.goodsRepo.GetByID(ctx, goodsID, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.PurchasesTotal.WithLabelValues("not_found").Inc()
			return nil, models.NewNotFoundError("Goods", goodsID)
		}
		return nil, err
	}
	if goods.IsSold {
		observability.PurchasesTotal.WithLabelValues("already_sold").Inc()
		return nil, models.NewConflictError("Goods already sold")
	}
	if goods.SellerID != nil && *goods.SellerID == buyerID {
		observability.PurchasesTotal.WithLabelValues("self_purchase").Inc()
		return nil, models.NewConflictError("Cannot buy your own listing")
	}

	ok, err := s.goodsRepo.MarkSold(ctx, goodsID, buyerID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race: another buyer's update landed between the read
		// above and the conditional write.
		observability.PurchasesTotal.WithLabelValues("already_sold").Inc()
		return nil, models.NewConflictError("Goods already sold")
	}

	observability.PurchasesTotal.WithLabelValues("success").Inc()
	return s.goodsRepo.GetByID(ctx, goodsID, buyerID)
}
