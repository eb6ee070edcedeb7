package service

import (
	"context"
	"errors"
	"time"

	"evo-assist/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// ChatService is the per-turn conversation loop: it routes each user
// message, retrieves context for informational categories and records
// the outcome as conversation turns. Single shot, no retries; every
// collaborator failure degrades to a short, polite reply and is only
// logged here.
type ChatService struct {
	router      *RouterService
	retriever   *RetrieverService
	synthesizer *SynthesizerService
	sessions    *SessionStore
	profile     *Profile
	logger      *zap.Logger
}

func NewChatService(
	router *RouterService,
	retriever *RetrieverService,
	synthesizer *SynthesizerService,
	sessions *SessionStore,
	profile *Profile,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		router:      router,
		retriever:   retriever,
		synthesizer: synthesizer,
		sessions:    sessions,
		profile:     profile,
		logger:      logger,
	}
}

// StartSession opens a new conversation seeded with the canned greeting.
func (s *ChatService) StartSession() *models.ConversationSession {
	session := s.sessions.Create(models.ConversationTurn{
		Role:      models.RoleAssistant,
		Content:   s.profile.GreetingReply,
		CreatedAt: time.Now(),
	})
	s.logger.Info("Session started", zap.String("session_id", session.ID.String()))
	return session
}

// History returns a copy of the session's turn history.
func (s *ChatService) History(sessionID uuid.UUID) ([]models.ConversationTurn, error) {
	turns, ok := s.sessions.History(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return turns, nil
}

// HandleMessage runs one full pipeline pass for a user message and
// returns the recorded assistant turn plus the routed category.
func (s *ChatService) HandleMessage(ctx context.Context, sessionID uuid.UUID, message string) (models.ConversationTurn, models.Category, error) {
	if !s.sessions.Exists(sessionID) {
		return models.ConversationTurn{}, "", ErrSessionNotFound
	}

	s.sessions.Append(sessionID, models.ConversationTurn{
		Role:      models.RoleUser,
		Content:   message,
		CreatedAt: time.Now(),
	})

	category, err := s.router.Classify(ctx, message)
	if err != nil {
		s.logger.Warn("Classification failed, routing to default category",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
	}

	content, videoURL := s.answer(ctx, category, message)

	turn := models.ConversationTurn{
		Role:      models.RoleAssistant,
		Content:   content,
		VideoURL:  videoURL,
		CreatedAt: time.Now(),
	}
	s.sessions.Append(sessionID, turn)

	s.logger.Info("Turn completed",
		zap.String("session_id", sessionID.String()),
		zap.String("category", string(category)),
		zap.Bool("video", videoURL != ""),
	)

	return turn, category, nil
}

func (s *ChatService) answer(ctx context.Context, category models.Category, message string) (content, videoURL string) {
	switch category {
	case models.CategoryGreeting:
		return s.profile.GreetingReply, ""
	case models.CategoryThanks:
		return s.profile.ThanksReply, ""
	}

	binding, ok := s.profile.Binding(category)
	if !ok {
		// The parse order only yields supported categories; this guards
		// against a profile misconfiguration.
		s.logger.Warn("No binding for category", zap.String("category", string(category)))
		return s.profile.NotFoundReply, ""
	}

	rctx, err := s.retriever.Retrieve(ctx, binding, message)
	if err != nil {
		s.logger.Error("Retrieval failed",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		rctx = models.RetrievedContext{}
	}
	if rctx.Empty() {
		return s.profile.NotFoundReply, ""
	}

	answer, err := s.synthesizer.Synthesize(ctx, binding, message, rctx)
	if err != nil {
		s.logger.Error("Synthesis failed",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		return answer, ""
	}

	return answer, rctx.VideoURL
}
