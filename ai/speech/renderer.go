// Package speech renders answer text to MP3 audio through an
// OpenAI-compatible speech endpoint.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/hrygo/hackbot/ai/core/llm"
	"github.com/hrygo/hackbot/internal/apperr"
)

const (
	// MIMEType is the content type of every rendered artifact.
	MIMEType = "audio/mpeg"
	// Filename is the download name offered for rendered audio.
	Filename = "speech.mp3"

	// maxAudioBytes caps how much of an engine response is buffered.
	maxAudioBytes = 64 << 20
)

// Artifact is a fully materialized MP3 rendering. It owns its buffer; every
// accessor hands out either a copy or a fresh reader positioned at the start.
type Artifact struct {
	Lang     string
	MIMEType string
	Filename string
	data     []byte
}

// Bytes returns a copy of the MP3 bytes.
func (a *Artifact) Bytes() []byte {
	return bytes.Clone(a.data)
}

// Len returns the size of the audio in bytes.
func (a *Artifact) Len() int {
	return len(a.data)
}

// NewReader returns a reader over the whole audio, positioned at offset 0.
func (a *Artifact) NewReader() *bytes.Reader {
	return bytes.NewReader(a.data)
}

// DataURI encodes the audio as a base64 data URI suitable for a download link.
func (a *Artifact) DataURI() string {
	return "data:" + a.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(a.data)
}

// Config configures the renderer.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string // gpt-4o-mini-tts, tts-1, tts-1-hd
	Voice       string // alloy, echo, fable, onyx, nova, shimmer
	DefaultLang string
	Timeout     int // seconds, default 60
}

// Renderer converts text to speech. It keeps no rendered audio and is safe
// for concurrent use.
type Renderer struct {
	client      *openai.Client
	model       string
	voice       string
	defaultLang string
	timeout     time.Duration
}

// NewRenderer creates a renderer for the configured speech endpoint.
func NewRenderer(cfg *Config) (*Renderer, error) {
	if cfg == nil {
		return nil, errors.New("speech: nil config")
	}
	if _, err := ResolveLanguage(cfg.DefaultLang); err != nil {
		return nil, fmt.Errorf("speech: default language: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	voice := cfg.Voice
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = llm.NewHTTPClient(time.Duration(timeout) * time.Second)

	return &Renderer{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		voice:       voice,
		defaultLang: cfg.DefaultLang,
		timeout:     time.Duration(timeout) * time.Second,
	}, nil
}

// Render synthesizes the whole text in one request and returns the complete
// MP3. An empty lang uses the renderer's default language.
func (r *Renderer) Render(ctx context.Context, text, lang string) (*Artifact, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", apperr.ErrEmptyInput)
	}
	if lang == "" {
		lang = r.defaultLang
	}
	resolved, err := ResolveLanguage(lang)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(r.model),
		Input:          text,
		Voice:          openai.SpeechVoice(r.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}
	if acceptsInstructions(r.model) {
		req.Instructions = fmt.Sprintf("Speak in %s.", resolved.Name())
	}

	start := time.Now()
	resp, err := r.client.CreateSpeech(ctx, req)
	if err != nil {
		slog.Error("speech: synthesis request failed", "model", r.model, "lang", resolved.Code, "error", err)
		return nil, fmt.Errorf("%w: %w", apperr.ErrSynthesis, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(io.LimitReader(resp, maxAudioBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %w", apperr.ErrSynthesis, err)
	}
	if len(data) > maxAudioBytes {
		return nil, fmt.Errorf("%w: audio exceeds %d bytes", apperr.ErrSynthesis, maxAudioBytes)
	}
	if !IsMP3(data) {
		return nil, fmt.Errorf("%w: engine returned %d bytes that are not MP3", apperr.ErrSynthesis, len(data))
	}

	slog.Debug("speech: rendered",
		"lang", resolved.Code,
		"text_length", len(text),
		"audio_bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Artifact{
		Lang:     resolved.Code,
		MIMEType: MIMEType,
		Filename: Filename,
		data:     data,
	}, nil
}

// acceptsInstructions reports whether the model honours voice instructions;
// the tts-1 family rejects them.
func acceptsInstructions(model string) bool {
	return strings.HasPrefix(model, "gpt-4o")
}
