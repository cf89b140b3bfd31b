package quizgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/testutil"
)

func TestHTTPGeneratorDecodesQuestions(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "photosynthesis notes", req.Text)
		assert.Equal(t, 3, req.Count)

		json.NewEncoder(w).Encode(generateResponse{Questions: []model.Question{
			{Question: "What do plants produce?", Options: []string{"Oxygen", "Methane"}, CorrectAnswer: 0},
		}})
	}))
	defer server.Close()

	gen := NewHTTPGenerator(server.URL, "secret-key")
	questions, err := gen.Generate(context.Background(), "photosynthesis notes", 3)
	require.NoError(t, err)

	require.Len(t, questions, 1)
	assert.Equal(t, "What do plants produce?", questions[0].Question)
	assert.Equal(t, "Bearer secret-key", gotAuth)
}

func TestHTTPGeneratorErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gen := NewHTTPGenerator(server.URL, "")
	_, err := gen.Generate(context.Background(), "text", 5)
	assert.ErrorIs(t, err, model.ErrContentGeneration)
}

func TestHTTPGeneratorRejectsMalformedQuestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Questions: []model.Question{
			{Question: "broken", Options: []string{"a", "b"}, CorrectAnswer: 5},
		}})
	}))
	defer server.Close()

	gen := NewHTTPGenerator(server.URL, "")
	_, err := gen.Generate(context.Background(), "text", 5)
	assert.ErrorIs(t, err, model.ErrContentGeneration)
}

func TestServiceUsesGenerator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Questions: []model.Question{
			{Question: "generated", Options: []string{"a", "b"}, CorrectAnswer: 1},
		}})
	}))
	defer server.Close()

	svc := NewService(NewHTTPGenerator(server.URL, ""), false, testutil.NopLogger())
	questions := svc.GenerateQuestions(context.Background(), "source text", 5)

	require.Len(t, questions, 1)
	assert.Equal(t, "generated", questions[0].Question)
}

func TestServiceFallsBackOnGeneratorFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewService(NewHTTPGenerator(server.URL, ""), false, testutil.NopLogger())
	questions := svc.GenerateQuestions(context.Background(), "source text", 5)

	assert.Equal(t, FallbackQuestions(), questions)
}

func TestServiceForcedFallback(t *testing.T) {
	svc := NewService(nil, true, testutil.NopLogger())
	questions := svc.GenerateQuestions(context.Background(), "source text", 5)
	assert.Equal(t, FallbackQuestions(), questions)
}

func TestServiceFallbackForEmptySource(t *testing.T) {
	svc := NewService(NewHTTPGenerator("http://unreachable.invalid", ""), false, testutil.NopLogger())
	questions := svc.GenerateQuestions(context.Background(), "", 5)
	assert.Equal(t, FallbackQuestions(), questions)
}
