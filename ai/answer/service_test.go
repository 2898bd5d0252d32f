package answer

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/hackbot/ai/core/llm"
	"github.com/hrygo/hackbot/ai/e2e/mocks"
	"github.com/hrygo/hackbot/ai/e2e/openaitest"
	"github.com/hrygo/hackbot/internal/apperr"
)

func TestBuildPrompt(t *testing.T) {
	text, err := BuildPrompt("What are the judging criteria?")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "You are an expert hackathon assistant."))
	assert.Contains(t, text, "User Query: What are the judging criteria?\n\n")
	assert.True(t, strings.HasSuffix(text, "judging criteria, team requirements, and prizes."))
}

func TestBuildPrompt_TemplateSyntaxIsData(t *testing.T) {
	text, err := BuildPrompt("{{.Query}} <b>&")
	require.NoError(t, err)
	assert.Contains(t, text, "User Query: {{.Query}} <b>&\n")
}

func TestService_Answer(t *testing.T) {
	mock := mocks.NewMockLLM().WithDefaultResponse("  Teams of up to four.\n")
	svc := NewService(mock, "gemini-1.5-flash")

	got, err := svc.Answer(context.Background(), "  How big can teams be?  ")
	require.NoError(t, err)

	assert.Equal(t, "  Teams of up to four.\n", got.Text, "answer text must be verbatim")
	assert.Equal(t, "How big can teams be?", got.Query)
	assert.Equal(t, "gemini-1.5-flash", got.Model)
	require.NotNil(t, got.Stats)
	assert.Equal(t, 150, got.Stats.TotalTokens)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0], 1)
	assert.Equal(t, "user", calls[0][0].Role)
	assert.Contains(t, calls[0][0].Content, "User Query: How big can teams be?\n")
}

func TestService_Answer_PerQueryPrompt(t *testing.T) {
	teamPrompt, err := BuildPrompt("How big can teams be?")
	require.NoError(t, err)
	prizePrompt, err := BuildPrompt("What are the prizes?")
	require.NoError(t, err)

	mock := mocks.NewMockLLM().
		WithResponse(teamPrompt, "Up to four people.").
		WithResponse(prizePrompt, "A trophy.")
	svc := NewService(mock, "gemini-1.5-flash")

	got, err := svc.Answer(context.Background(), "What are the prizes?")
	require.NoError(t, err)
	assert.Equal(t, "A trophy.", got.Text)

	got, err = svc.Answer(context.Background(), " How big can teams be? ")
	require.NoError(t, err)
	assert.Equal(t, "Up to four people.", got.Text)
	assert.Equal(t, 2, mock.CallCount())
}

func TestService_Answer_EmptyInput(t *testing.T) {
	for _, query := range []string{"", "   ", "\n\t"} {
		mock := mocks.NewMockLLM()
		svc := NewService(mock, "m")

		got, err := svc.Answer(context.Background(), query)
		assert.Nil(t, got)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperr.ErrEmptyInput))
		assert.Equal(t, 0, mock.CallCount(), "empty query must not reach the model")
	}
}

func TestService_Answer_SingleCharacter(t *testing.T) {
	mock := mocks.NewMockLLM().WithDefaultResponse("Ask me anything about hackathons.")
	svc := NewService(mock, "m")

	got, err := svc.Answer(context.Background(), "?")
	require.NoError(t, err)
	assert.NotEmpty(t, got.Text)
	assert.Equal(t, 1, mock.CallCount())
}

func TestService_Answer_LongQuery(t *testing.T) {
	mock := mocks.NewMockLLM()
	svc := NewService(mock, "m")

	_, err := svc.Answer(context.Background(), strings.Repeat("prizes ", 20000))
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestService_Answer_RemoteError(t *testing.T) {
	mock := mocks.NewMockLLM().WithError(errors.New("connection reset"))
	svc := NewService(mock, "m")

	got, err := svc.Answer(context.Background(), "When does judging start?")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Equal(t, apperr.KindRemoteService, apperr.KindOf(err))
	assert.Equal(t, 1, mock.CallCount(), "no internal retry")
}

func TestService_Answer_OverHTTP(t *testing.T) {
	server := openaitest.NewServer()
	defer server.Close()
	server.SetChatReply("Judging criteria: innovation, execution, presentation.")

	llmService, err := llm.NewService(&llm.Config{
		Provider: "gemini",
		Model:    "gemini-1.5-flash",
		APIKey:   "test-key",
		BaseURL:  server.BaseURL(),
	})
	require.NoError(t, err)
	svc := NewService(llmService, "gemini-1.5-flash")

	got, err := svc.Answer(context.Background(), "What are the judging criteria?")
	require.NoError(t, err)
	assert.Equal(t, "Judging criteria: innovation, execution, presentation.", got.Text)

	requests := server.ChatRequests()
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0].Messages[0].Content, "What are the judging criteria?")

	server.SetChatStatus(http.StatusUnauthorized)
	_, err = svc.Answer(context.Background(), "What are the judging criteria?")
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
}
