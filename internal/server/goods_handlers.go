package server

import (
	"tradepost/internal/models"
	"tradepost/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetGoodsList handles GET /api/goods
func (s *Server) GetGoodsList(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	goods, err := s.goodsService.ListGoods(c.Context(), page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"goods":   goods,
		"count":   len(goods),
	})
}

// GetGoods handles GET /api/goods/:id
func (s *Server) GetGoods(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	goods, err := s.goodsService.GetGoods(c.Context(), id, userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"goods":   goods,
	})
}

// CreateGoods handles POST /api/goods
func (s *Server) CreateGoods(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Condition   string  `json:"condition"`
		Location    string  `json:"location"`
		Contact     string  `json:"contact"`
		ImageURL    string  `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	goods, err := s.goodsService.CreateGoods(c.Context(), service.CreateGoodsInput{
		SellerID:    userID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		Location:    req.Location,
		Contact:     req.Contact,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Goods created",
		"goods":   goods,
	})
}

// UpdateGoods handles PUT /api/goods/:id
func (s *Server) UpdateGoods(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Condition   *string  `json:"condition"`
		Location    *string  `json:"location"`
		Contact     *string  `json:"contact"`
		ImageURL    *string  `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	goods, err := s.goodsService.UpdateGoods(c.Context(), service.UpdateGoodsInput{
		UserID:      userID,
		GoodsID:     id,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		Location:    req.Location,
		Contact:     req.Contact,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Goods updated",
		"goods":   goods,
	})
}

// DeleteGoods handles DELETE /api/goods/:id
func (s *Server) DeleteGoods(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.goodsService.DeleteGoods(c.Context(), userID, id); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Goods deleted",
	})
}

// PurchaseGoods handles POST /api/goods/:id/purchase
func (s *Server) PurchaseGoods(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	goods, err := s.tradeService.Purchase(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Purchase successful",
		"goods":   goods,
	})
}

// GetUserGoods handles GET /api/user-goods/:action where action is one of
// my-goods, my-purchases or favorites.
func (s *Server) GetUserGoods(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	var goods []*models.Goods
	var err error
	switch c.Params("action") {
	case "my-goods":
		goods, err = s.goodsService.ListPublished(c.Context(), userID, page.Limit, page.Offset)
	case "my-purchases":
		goods, err = s.goodsService.ListBought(c.Context(), userID, page.Limit, page.Offset)
	case "favorites":
		goods, err = s.reactionService.ListFavorites(c.Context(), userID, page.Limit, page.Offset)
	default:
		return models.RespondWithError(c,
			models.NewValidationError("Invalid action, expected my-goods, my-purchases or favorites"))
	}
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"goods":   goods,
		"count":   len(goods),
	})
}
