package service

import (
	"context"
	"fmt"

	"evo-assist/internal/models"

	"go.uber.org/zap"
)

const videoNoteFormat = "\n\n---\n**🎥 Tutorial:** [Clique aqui](%s)"

// SynthesizerService turns a retrieved context into the final answer
// with one completion call. A failed call degrades to the deployment's
// apology reply; synthesis never crashes a turn.
type SynthesizerService struct {
	completer Completer
	profile   *Profile
	logger    *zap.Logger
}

func NewSynthesizerService(completer Completer, profile *Profile, logger *zap.Logger) *SynthesizerService {
	return &SynthesizerService{
		completer: completer,
		profile:   profile,
		logger:    logger,
	}
}

// Synthesize answers the question from the retrieved context using the
// binding's instruction template and temperature. On failure the apology
// reply is returned together with the error so the caller can record the
// degradation. The tutorial-video note is appended only to successful
// answers.
func (s *SynthesizerService) Synthesize(ctx context.Context, binding CategoryBinding, question string, rctx models.RetrievedContext) (string, error) {
	system := s.profile.RenderTemplate(binding.Template, rctx.Topic)
	user := fmt.Sprintf("CONTEXTO: %s\n\nPERGUNTA: %s", rctx.Text, question)

	answer, err := s.completer.Complete(ctx, system, user, binding.Temperature, 0)
	if err != nil {
		return s.profile.ApologyReply, fmt.Errorf("failed to synthesize answer: %w", err)
	}

	if rctx.VideoURL != "" {
		answer += fmt.Sprintf(videoNoteFormat, rctx.VideoURL)
	}

	s.logger.Debug("Answer synthesized",
		zap.String("category", string(binding.Category)),
		zap.String("topic", rctx.Topic),
		zap.Bool("video", rctx.VideoURL != ""),
	)

	return answer, nil
}
