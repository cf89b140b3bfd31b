package quizgen

import (
	"context"
	"log/slog"

	"github.com/playroom-games/playroom/internal/model"
)

// fallbackQuestions are served when generation is disabled or fails, so a
// quiz room can always be created
var fallbackQuestions = []model.Question{
	{
		Question:      "Which planet is known as the Red Planet?",
		Options:       []string{"Venus", "Mars", "Jupiter", "Saturn"},
		CorrectAnswer: 1,
	},
	{
		Question:      "What is the largest ocean on Earth?",
		Options:       []string{"Atlantic", "Indian", "Arctic", "Pacific"},
		CorrectAnswer: 3,
	},
	{
		Question:      "How many continents are there?",
		Options:       []string{"Five", "Six", "Seven", "Eight"},
		CorrectAnswer: 2,
	},
	{
		Question:      "What gas do plants absorb from the atmosphere?",
		Options:       []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Hydrogen"},
		CorrectAnswer: 2,
	},
	{
		Question:      "Which element has the chemical symbol O?",
		Options:       []string{"Gold", "Oxygen", "Osmium", "Oganesson"},
		CorrectAnswer: 1,
	},
}

// FallbackQuestions returns a copy of the built-in question set
func FallbackQuestions() []model.Question {
	out := make([]model.Question, len(fallbackQuestions))
	copy(out, fallbackQuestions)
	return out
}

// Service turns source text into quiz questions, degrading to the built-in
// set when the external generator is unavailable or misbehaves
type Service struct {
	generator   Generator
	useFallback bool
	logger      *slog.Logger
}

// NewService creates a question service. A nil generator forces fallback.
func NewService(generator Generator, useFallback bool, logger *slog.Logger) *Service {
	return &Service{
		generator:   generator,
		useFallback: useFallback,
		logger:      logger,
	}
}

// GenerateQuestions produces a question set for the given source text.
// Generation failures are logged and answered with the fallback set rather
// than surfaced, so room creation never fails on a flaky generator.
func (s *Service) GenerateQuestions(ctx context.Context, sourceText string, count int) []model.Question {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	if s.useFallback || s.generator == nil || sourceText == "" {
		return FallbackQuestions()
	}

	questions, err := s.generator.Generate(ctx, sourceText, count)
	if err != nil {
		s.logger.Warn("question generation failed, using fallback set",
			slog.Any("error", err))
		return FallbackQuestions()
	}
	return questions
}
