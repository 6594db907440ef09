package server

import (
	"tradepost/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikeGoods handles POST /api/goods/:id/like
func (s *Server) LikeGoods(c *fiber.Ctx) error {
	goodsID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.reactionService.Like(c.Context(), userID, goodsID); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Liked",
	})
}

// UnlikeGoods handles DELETE /api/goods/:id/like
func (s *Server) UnlikeGoods(c *fiber.Ctx) error {
	goodsID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.reactionService.Unlike(c.Context(), userID, goodsID); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Unliked",
	})
}

// FavoriteGoods handles POST /api/goods/:id/favorite
func (s *Server) FavoriteGoods(c *fiber.Ctx) error {
	goodsID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.reactionService.Favorite(c.Context(), userID, goodsID); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Favorited",
	})
}

// UnfavoriteGoods handles DELETE /api/goods/:id/favorite
func (s *Server) UnfavoriteGoods(c *fiber.Ctx) error {
	goodsID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.reactionService.Unfavorite(c.Context(), userID, goodsID); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Unfavorited",
	})
}
