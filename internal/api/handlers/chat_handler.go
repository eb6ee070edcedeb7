package handlers

import (
	"errors"
	"strings"

	"evo-assist/internal/dto"
	"evo-assist/internal/models"
	"evo-assist/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// CreateSession godoc
// @Summary Start a conversation session
// @Description Opens a new session seeded with the assistant greeting
// @Tags chat
// @Produce json
// @Success 201 {object} dto.CreateSessionResponse
// @Router /api/v1/sessions [post]
func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	session := h.chatService.StartSession()

	return c.Status(fiber.StatusCreated).JSON(dto.CreateSessionResponse{
		SessionID: session.ID.String(),
		Greeting:  session.Turns[0].Content,
	})
}

// SendMessage godoc
// @Summary Send a message
// @Description Runs the routing/retrieval/synthesis pipeline for one user message
// @Tags chat
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.ChatRequest true "User message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	turn, category, err := h.chatService.HandleMessage(c.Context(), sessionID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		h.logger.Error("Failed to handle message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to handle message",
		})
	}

	return c.JSON(dto.ChatResponse{
		Reply:    turn.Content,
		Category: string(category),
		VideoURL: turn.VideoURL,
	})
}

// GetHistory godoc
// @Summary Get session history
// @Tags chat
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/history [get]
func (h *ChatHandler) GetHistory(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	turns, err := h.chatService.History(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	return c.JSON(dto.HistoryResponse{
		SessionID: sessionID.String(),
		Turns:     toTurnResponses(turns),
	})
}

func toTurnResponses(turns []models.ConversationTurn) []dto.TurnResponse {
	out := make([]dto.TurnResponse, len(turns))
	for i, t := range turns {
		out[i] = dto.TurnResponse{
			Role:     string(t.Role),
			Content:  t.Content,
			VideoURL: t.VideoURL,
		}
	}
	return out
}
