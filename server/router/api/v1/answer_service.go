package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/hackbot/ai/metrics"
	"github.com/hrygo/hackbot/ai/observability/logging"
)

type AnswerRequest struct {
	Query string `json:"query"`
}

type AnswerResponse struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
	HTML   string `json:"html,omitempty"`
	Model  string `json:"model"`
}

// HandleAnswer serves POST /api/v1/answer.
func (s *APIV1Service) HandleAnswer(c echo.Context) error {
	var req AnswerRequest
	if err := c.Bind(&req); err != nil {
		return malformedBody(err)
	}

	ctx := c.Request().Context()
	start := time.Now()
	result, err := s.AnswerService.Answer(ctx, req.Query)
	s.Metrics.RecordRequest(metrics.OperationAnswer, time.Since(start), err)
	if err != nil {
		return err
	}

	if result.Stats != nil {
		s.Metrics.RecordLLMTokens(result.Model, "prompt", result.Stats.PromptTokens)
		s.Metrics.RecordLLMTokens(result.Model, "completion", result.Stats.CompletionTokens)
		s.Metrics.RecordLLMTokens(result.Model, "cache_read", result.Stats.CacheReadTokens)
		s.Metrics.RecordLLMLatency(result.Model, s.Profile.LLMProvider, time.Duration(result.Stats.TotalDurationMs)*time.Millisecond)
	}

	html, err := s.MarkdownService.RenderHTML([]byte(result.Text))
	if err != nil {
		// The verbatim answer is still served.
		logging.FromContext(ctx).Warn("failed to render answer markdown", "error", err)
		html = ""
	}

	return c.JSON(http.StatusOK, AnswerResponse{
		Query:  result.Query,
		Answer: result.Text,
		HTML:   html,
		Model:  result.Model,
	})
}
