package server

import (
	"tradepost/internal/models"
	"tradepost/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/goods/:id/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	goodsID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.SendMessage(c.Context(), service.SendMessageInput{
		SenderID: userID,
		GoodsID:  goodsID,
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// GetGoodsMessages handles GET /api/goods/:id/messages
func (s *Server) GetGoodsMessages(c *fiber.Ctx) error {
	goodsID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	messages, err := s.messageService.ListGoodsMessages(c.Context(), userID, goodsID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
		"count":    len(messages),
	})
}

// GetUserMessages handles GET /api/user/messages
func (s *Server) GetUserMessages(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	messages, err := s.messageService.ListUserMessages(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
		"count":    len(messages),
	})
}

// MarkMessageRead handles POST /api/messages/:id/read
func (s *Server) MarkMessageRead(c *fiber.Ctx) error {
	messageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	message, err := s.messageService.MarkRead(c.Context(), userID, messageID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}
