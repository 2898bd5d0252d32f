package v1

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/hrygo/hackbot/ai/answer"
	"github.com/hrygo/hackbot/ai/metrics"
	"github.com/hrygo/hackbot/ai/speech"
	"github.com/hrygo/hackbot/internal/profile"
	"github.com/hrygo/hackbot/plugin/markdown"
	"github.com/hrygo/hackbot/plugin/tabular"
)

// Answerer answers one hackathon question.
type Answerer interface {
	Answer(ctx context.Context, query string) (*answer.Answer, error)
}

// Speaker renders text to an MP3 artifact.
type Speaker interface {
	Render(ctx context.Context, text, lang string) (*speech.Artifact, error)
}

// TableConverter converts a whole table between formats.
type TableConverter interface {
	Convert(ctx context.Context, source, target tabular.Format, r io.Reader) (*tabular.Artifact, error)
}

type APIV1Service struct {
	// Domain Services
	AnswerService  Answerer
	SpeechService  Speaker
	ConvertService TableConverter

	// Shared Infra
	MarkdownService     markdown.Service
	Metrics             *metrics.PrometheusExporter
	Profile             *profile.Profile
	conversionSemaphore *semaphore.Weighted
}

func NewAPIV1Service(profile *profile.Profile, answerer Answerer, speaker Speaker, converter TableConverter, exporter *metrics.PrometheusExporter) *APIV1Service {
	maxConversions := profile.MaxConversions
	if maxConversions <= 0 {
		maxConversions = 3
	}
	if exporter == nil {
		exporter = metrics.NewPrometheusExporter(metrics.Config{})
	}
	return &APIV1Service{
		AnswerService:       answerer,
		SpeechService:       speaker,
		ConvertService:      converter,
		MarkdownService:     markdown.NewService(markdown.WithGFM(), markdown.WithHardWraps()),
		Metrics:             exporter,
		Profile:             profile,
		conversionSemaphore: semaphore.NewWeighted(int64(maxConversions)),
	}
}

// RegisterRoutes mounts the API under /api/v1 on echoServer.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	group := echoServer.Group("/api/v1", middleware.CORS())
	if rps := s.Profile.RequestsPerSecond; rps > 0 {
		group.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:  rate.Limit(rps),
				Burst: max(int(rps), 1),
			}),
			DenyHandler: func(_ echo.Context, _ string, _ error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			},
		}))
	}

	group.POST("/answer", s.HandleAnswer)
	group.POST("/speech", s.HandleSpeech)
	group.POST("/convert", s.HandleConvert)
	group.GET("/languages", s.HandleLanguages)
}
