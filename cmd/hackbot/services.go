package main

import (
	"github.com/hrygo/hackbot/ai/answer"
	"github.com/hrygo/hackbot/ai/core/llm"
	"github.com/hrygo/hackbot/ai/speech"
	"github.com/hrygo/hackbot/internal/profile"
)

func newLLMService(p *profile.Profile) (llm.Service, error) {
	return llm.NewService(&llm.Config{
		Provider: p.LLMProvider,
		Model:    p.LLMModel,
		APIKey:   p.LLMAPIKey,
		BaseURL:  p.LLMBaseURL,
		Timeout:  p.LLMTimeout,
	})
}

func newAnswerService(p *profile.Profile, llmService llm.Service) *answer.Service {
	return answer.NewService(llmService, p.LLMModel)
}

func newRenderer(p *profile.Profile) (*speech.Renderer, error) {
	return speech.NewRenderer(&speech.Config{
		APIKey:      p.SpeechAPIKey,
		BaseURL:     p.SpeechBaseURL,
		Model:       p.SpeechModel,
		Voice:       p.SpeechVoice,
		DefaultLang: p.SpeechLang,
		Timeout:     p.SpeechTimeout,
	})
}
