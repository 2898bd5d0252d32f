package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/hackbot/ai/e2e/openaitest"
	"github.com/hrygo/hackbot/internal/apperr"
)

func newTestService(t *testing.T, baseURL string) Service {
	t.Helper()
	svc, err := NewService(&Config{
		Provider:    "gemini",
		Model:       "gemini-1.5-flash",
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresModel(t *testing.T) {
	_, err := NewService(&Config{Provider: "gemini", APIKey: "k"})
	assert.Error(t, err)

	_, err = NewService(nil)
	assert.Error(t, err)
}

func TestNewService_DefaultTimeout(t *testing.T) {
	svc, err := NewService(&Config{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"})
	require.NoError(t, err)

	s, ok := svc.(*service)
	require.True(t, ok, "NewService() did not return *service type")
	assert.Equal(t, 60*time.Second, s.timeout)
	assert.Equal(t, "gpt-4o-mini", s.model)
}

func TestService_Chat(t *testing.T) {
	server := openaitest.NewServer()
	defer server.Close()
	server.SetChatReply("  Judging weighs **impact** and demo quality.\n")

	svc := newTestService(t, server.BaseURL())

	content, stats, err := svc.Chat(context.Background(), []Message{UserMessage("What are the judging criteria?")})
	require.NoError(t, err)

	// Content is returned verbatim, whitespace included.
	assert.Equal(t, "  Judging weighs **impact** and demo quality.\n", content)
	require.NotNil(t, stats)
	assert.Equal(t, 12, stats.PromptTokens)
	assert.Equal(t, 8, stats.CompletionTokens)
	assert.Equal(t, 20, stats.TotalTokens)

	requests := server.ChatRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, "gemini-1.5-flash", requests[0].Model)
	require.Len(t, requests[0].Messages, 1)
	assert.Equal(t, "user", requests[0].Messages[0].Role)
	assert.Equal(t, []string{"Bearer test-key"}, server.AuthHeaders())
}

func TestService_Chat_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		wantKind apperr.Kind
	}{
		{"server error", http.StatusInternalServerError, apperr.KindRemoteService},
		{"rate limited", http.StatusTooManyRequests, apperr.KindRemoteService},
		{"unauthorized", http.StatusUnauthorized, apperr.KindAuthentication},
		{"forbidden", http.StatusForbidden, apperr.KindAuthentication},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := openaitest.NewServer()
			defer server.Close()
			server.SetChatStatus(tc.status)

			svc := newTestService(t, server.BaseURL())
			_, _, err := svc.Chat(context.Background(), []Message{UserMessage("hi")})
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrRemoteService))
			assert.Equal(t, tc.wantKind, apperr.KindOf(err))

			// Single attempt, no internal retry.
			assert.Len(t, server.ChatRequests(), 1)
		})
	}
}

func TestService_Chat_NetworkFailure(t *testing.T) {
	server := openaitest.NewServer()
	baseURL := server.BaseURL()
	server.Close()

	svc := newTestService(t, baseURL)
	_, _, err := svc.Chat(context.Background(), []Message{UserMessage("hi")})
	require.Error(t, err)
	assert.Equal(t, apperr.KindRemoteService, apperr.KindOf(err))
}

func TestService_Chat_Timeout(t *testing.T) {
	server := openaitest.NewServer()
	defer server.Close()

	svc := newTestService(t, server.BaseURL())
	s := svc.(*service)
	s.timeout = time.Nanosecond

	_, _, err := svc.Chat(context.Background(), []Message{UserMessage("hi")})
	require.Error(t, err)
	assert.Equal(t, apperr.KindRemoteService, apperr.KindOf(err))
}

func TestService_Warmup_NoPanic(t *testing.T) {
	server := openaitest.NewServer()
	defer server.Close()
	server.SetChatStatus(http.StatusServiceUnavailable)

	svc := newTestService(t, server.BaseURL())
	svc.Warmup(context.Background())
}

func TestConvertMessages(t *testing.T) {
	out := convertMessages([]Message{
		{Role: "system", Content: "s"},
		{Role: "assistant", Content: "a"},
		{Role: "other", Content: "o"},
	})
	require.Len(t, out, 3)
	assert.Equal(t, "system", out[0].Role)
	assert.Equal(t, "assistant", out[1].Role)
	assert.Equal(t, "user", out[2].Role)
}
