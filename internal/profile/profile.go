package profile

import (
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/hackbot/internal/apperr"
)

// Profile is configuration to start the assistant.
type Profile struct {
	// LLM configuration (OpenAI-compatible protocol).
	// All providers (gemini, openai, deepseek, openrouter, ollama) use the same config.
	LLMProvider string // Provider identifier: gemini, openai, deepseek, openrouter, ollama
	LLMAPIKey   string // The single static credential
	LLMBaseURL  string // Optional, has default per provider
	LLMModel    string // gemini-1.5-flash, gpt-4o-mini, deepseek-chat, etc.
	LLMTimeout  int    // LLM request timeout in seconds (default: 60)

	// Speech synthesis configuration (OpenAI-compatible /audio/speech).
	SpeechAPIKey  string // Defaults to LLMAPIKey when the speech endpoint is on the LLM host
	SpeechBaseURL string
	SpeechModel   string
	SpeechVoice   string
	SpeechLang    string
	SpeechTimeout int

	// Other configurations
	Mode              string
	Addr              string
	Version           string
	LogLevel          string
	Port              int
	MaxUploadMB       int
	MaxConversions    int
	RequestsPerSecond float64
}

// Provider default configurations for LLM.
// Used when HACKBOT_AI_LLM_BASE_URL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"gemini": {
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
		Model:   "gemini-1.5-flash",
	},
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "google/gemini-flash-1.5",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// RequiresCredential reports whether the configured provider needs an API key.
func (p *Profile) RequiresCredential() bool {
	return p.LLMProvider != "ollama"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
// GOOGLE_API_KEY is honoured as the credential when HACKBOT_AI_LLM_API_KEY is unset.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("HACKBOT_AI_LLM_PROVIDER", "gemini")
	p.LLMAPIKey = getEnvOrDefault("HACKBOT_AI_LLM_API_KEY", os.Getenv("GOOGLE_API_KEY"))
	p.LLMBaseURL = getEnvOrDefault("HACKBOT_AI_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("HACKBOT_AI_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("HACKBOT_AI_LLM_TIMEOUT_SECONDS", 60)

	if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
		slog.Warn("Unknown LLM provider, using default: gemini", "provider", p.LLMProvider)
		p.LLMProvider = "gemini"
	}
	defaults := llmProviderDefaults[p.LLMProvider]
	if p.LLMBaseURL == "" {
		p.LLMBaseURL = defaults.BaseURL
	}
	if p.LLMModel == "" {
		p.LLMModel = defaults.Model
	}

	p.SpeechAPIKey = os.Getenv("HACKBOT_AI_SPEECH_API_KEY")
	p.SpeechBaseURL = getEnvOrDefault("HACKBOT_AI_SPEECH_BASE_URL", "https://api.openai.com/v1")
	p.SpeechModel = getEnvOrDefault("HACKBOT_AI_SPEECH_MODEL", "gpt-4o-mini-tts")
	p.SpeechVoice = getEnvOrDefault("HACKBOT_AI_SPEECH_VOICE", "alloy")
	p.SpeechLang = getEnvOrDefault("HACKBOT_AI_SPEECH_LANG", "en")
	p.SpeechTimeout = getEnvOrDefaultInt("HACKBOT_AI_SPEECH_TIMEOUT_SECONDS", 60)

	p.MaxUploadMB = getEnvOrDefaultInt("HACKBOT_MAX_UPLOAD_MB", 20)
	p.MaxConversions = getEnvOrDefaultInt("HACKBOT_MAX_CONVERSIONS", 3)
	p.RequestsPerSecond = getEnvOrDefaultFloat("HACKBOT_REQUESTS_PER_SECOND", 10)
}

// Validate normalizes the profile and checks the startup requirements.
// A missing credential is fatal: the returned error wraps apperr.ErrAuthentication.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	p.LLMAPIKey = strings.TrimSpace(p.LLMAPIKey)
	p.SpeechAPIKey = strings.TrimSpace(p.SpeechAPIKey)

	if p.RequiresCredential() && p.LLMAPIKey == "" {
		slog.Error("API key not found", "provider", p.LLMProvider)
		return errors.Wrap(apperr.ErrAuthentication, "API key not found, set HACKBOT_AI_LLM_API_KEY or GOOGLE_API_KEY")
	}
	if p.SpeechAPIKey == "" && p.speechSharesLLMHost() {
		p.SpeechAPIKey = p.LLMAPIKey
	}

	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.MaxUploadMB <= 0 {
		p.MaxUploadMB = 20
	}
	if p.MaxConversions <= 0 {
		p.MaxConversions = 3
	}
	if p.LLMTimeout <= 0 {
		p.LLMTimeout = 60
	}
	if p.SpeechTimeout <= 0 {
		p.SpeechTimeout = 60
	}
	return nil
}

// ValidateSpeech checks that speech synthesis has a credential. The LLM key
// is only reused on the LLM host, so a gemini key is never sent to another
// provider's speech endpoint. Call it after Validate.
func (p *Profile) ValidateSpeech() error {
	if p.SpeechAPIKey != "" {
		return nil
	}
	host := hostOf(p.SpeechBaseURL)
	slog.Error("Speech API key not found", "provider", p.LLMProvider, "speech_host", host)
	return errors.Wrapf(apperr.ErrAuthentication,
		"speech endpoint %s does not accept the %s credential, set HACKBOT_AI_SPEECH_API_KEY", host, p.LLMProvider)
}

func (p *Profile) speechSharesLLMHost() bool {
	return hostOf(p.SpeechBaseURL) == hostOf(p.LLMBaseURL)
}

// hostOf returns the lowercased host and port of rawURL, or "" if it has none.
func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
