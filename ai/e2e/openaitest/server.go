package openaitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// SampleMP3 returns a minimal MP3 stream: an empty ID3v2.4 tag followed by
// two silent MPEG-1 Layer III frames (128 kbit/s, 44.1 kHz).
func SampleMP3() []byte {
	const frameLen = 417
	data := []byte{'I', 'D', '3', 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	for i := 0; i < 2; i++ {
		frame := make([]byte, frameLen)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0x64})
		data = append(data, frame...)
	}
	return data
}

// ChatRequest is the subset of a chat completion request the fake records.
type ChatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// SpeechRequest is the subset of a speech request the fake records.
type SpeechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	Instructions   string `json:"instructions"`
	ResponseFormat string `json:"response_format"`
}

// Server fakes the chat completion and speech endpoints of an
// OpenAI-compatible API.
type Server struct {
	*httptest.Server

	mu             sync.Mutex
	chatReply      string
	chatStatus     int
	speechBody     []byte
	speechStatus   int
	chatRequests   []ChatRequest
	speechRequests []SpeechRequest
	authHeaders    []string
}

// NewServer starts a fake that answers chat with "Mock answer" and
// speech with SampleMP3. Close it when done.
func NewServer() *Server {
	s := &Server{
		chatReply:    "Mock answer",
		chatStatus:   http.StatusOK,
		speechBody:   SampleMP3(),
		speechStatus: http.StatusOK,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// BaseURL is the value to configure as the client base URL.
func (s *Server) BaseURL() string {
	return s.URL + "/v1"
}

// SetChatReply sets the completion content returned by chat requests.
func (s *Server) SetChatReply(reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatReply = reply
}

// SetChatStatus makes chat requests fail with the given status code.
func (s *Server) SetChatStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatStatus = status
}

// SetSpeechBody sets the bytes returned by speech requests.
func (s *Server) SetSpeechBody(body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speechBody = body
}

// SetSpeechStatus makes speech requests fail with the given status code.
func (s *Server) SetSpeechStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speechStatus = status
}

// ChatRequests returns the recorded chat requests.
func (s *Server) ChatRequests() []ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatRequest(nil), s.chatRequests...)
}

// SpeechRequests returns the recorded speech requests.
func (s *Server) SpeechRequests() []SpeechRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SpeechRequest(nil), s.speechRequests...)
}

// AuthHeaders returns the Authorization headers seen so far.
func (s *Server) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authHeaders...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/chat/completions"):
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAPIError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.chatRequests = append(s.chatRequests, req)
		if s.chatStatus != http.StatusOK {
			writeAPIError(w, s.chatStatus, "chat failed")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-mock",
			"object":  "chat.completion",
			"created": 1,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": s.chatReply},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20},
		})

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/audio/speech"):
		var req SpeechRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAPIError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.speechRequests = append(s.speechRequests, req)
		if s.speechStatus != http.StatusOK {
			writeAPIError(w, s.speechStatus, "speech failed")
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(s.speechBody)

	default:
		writeAPIError(w, http.StatusNotFound, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	}
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    "mock_error",
		},
	})
}
