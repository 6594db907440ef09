package server

import (
	"tradepost/internal/models"
	"tradepost/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/goods/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	goodsID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	comments, err := s.commentService.ListComments(c.Context(), goodsID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"comments": comments,
		"count":    len(comments),
	})
}

// CreateComment handles POST /api/goods/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	goodsID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Content string `json:"content"`
		Rating  int    `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:  userID,
		GoodsID: goodsID,
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Comment created",
		"comment": comment,
	})
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.commentService.DeleteComment(c.Context(), userID, commentID); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Comment deleted",
	})
}
