package quizgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/playroom-games/playroom/internal/model"
)

// DefaultQuestionCount is how many questions a quiz is built from when the
// caller does not ask for a specific number
const DefaultQuestionCount = 5

// Generator produces multiple-choice questions from source text
type Generator interface {
	Generate(ctx context.Context, sourceText string, count int) ([]model.Question, error)
}

// HTTPGenerator calls an external question-generation API
type HTTPGenerator struct {
	url    string
	apiKey string
	client *http.Client
}

var _ Generator = (*HTTPGenerator)(nil)

// NewHTTPGenerator creates a generator backed by the API at the given URL
func NewHTTPGenerator(url, apiKey string) *HTTPGenerator {
	return &HTTPGenerator{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

type generateResponse struct {
	Questions []model.Question `json:"questions"`
}

// Generate posts the source text to the API and decodes the question set
func (g *HTTPGenerator) Generate(ctx context.Context, sourceText string, count int) ([]model.Question, error) {
	body, err := json.Marshal(generateRequest{Text: sourceText, Count: count})
	if err != nil {
		return nil, fmt.Errorf("encoding generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling question generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("question generator returned status %d: %w", resp.StatusCode, model.ErrContentGeneration)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding generation response: %w", err)
	}
	if len(decoded.Questions) == 0 {
		return nil, model.ErrContentGeneration
	}

	for i, q := range decoded.Questions {
		if len(q.Options) == 0 || q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, fmt.Errorf("malformed question %d: %w", i, model.ErrContentGeneration)
		}
	}
	return decoded.Questions, nil
}
