// Package answer turns a hackathon question into a prompt and retrieves the
// generated answer from the configured language model.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hrygo/hackbot/ai/core/llm"
	"github.com/hrygo/hackbot/internal/apperr"
)

// Answer is the generated reply to one query.
type Answer struct {
	Query string
	Text  string // verbatim model output
	Model string
	Stats *llm.LLMCallStats
}

// Service answers hackathon questions. It holds no per-call state and is
// safe for concurrent use.
type Service struct {
	llm   llm.Service
	model string
}

// NewService creates an answer service backed by llmService. model is only
// used for reporting.
func NewService(llmService llm.Service, model string) *Service {
	return &Service{llm: llmService, model: model}
}

// Answer issues exactly one remote call for a non-empty query. A query that is
// empty after trimming returns apperr.ErrEmptyInput without contacting the model.
func (s *Service) Answer(ctx context.Context, query string) (*Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", apperr.ErrEmptyInput)
	}

	text, err := BuildPrompt(query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	content, stats, err := s.llm.Chat(ctx, []llm.Message{llm.UserMessage(text)})
	if err != nil {
		slog.Warn("answer: generation failed",
			"query_length", len(query),
			"error", err,
		)
		if apperr.KindOf(err) == apperr.KindUnknown {
			err = fmt.Errorf("%w: %w", apperr.ErrRemoteService, err)
		}
		return nil, err
	}

	slog.Debug("answer: generated",
		"query_length", len(query),
		"answer_length", len(content),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Answer{
		Query: query,
		Text:  content,
		Model: s.model,
		Stats: stats,
	}, nil
}
