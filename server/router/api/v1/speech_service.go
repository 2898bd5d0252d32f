package v1

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/hackbot/ai/metrics"
	"github.com/hrygo/hackbot/ai/speech"
)

type SpeechRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

type SpeechResponse struct {
	Lang     string `json:"lang"`
	MIMEType string `json:"mime_type"`
	Filename string `json:"filename"`
	Size     int    `json:"size"`
	DataURI  string `json:"data_uri"`
}

type LanguageInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// HandleSpeech serves POST /api/v1/speech. Clients that accept audio/mpeg get
// the MP3 itself, everyone else a JSON envelope with a data URI.
func (s *APIV1Service) HandleSpeech(c echo.Context) error {
	var req SpeechRequest
	if err := c.Bind(&req); err != nil {
		return malformedBody(err)
	}

	start := time.Now()
	artifact, err := s.SpeechService.Render(c.Request().Context(), req.Text, req.Lang)
	s.Metrics.RecordRequest(metrics.OperationSpeech, time.Since(start), err)
	if err != nil {
		return err
	}
	s.Metrics.RecordSpeechBytes(artifact.Lang, artifact.Len())

	if acceptsAudio(c.Request()) {
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", artifact.Filename))
		return c.Stream(http.StatusOK, artifact.MIMEType, artifact.NewReader())
	}
	return c.JSON(http.StatusOK, SpeechResponse{
		Lang:     artifact.Lang,
		MIMEType: artifact.MIMEType,
		Filename: artifact.Filename,
		Size:     artifact.Len(),
		DataURI:  artifact.DataURI(),
	})
}

// HandleLanguages serves GET /api/v1/languages.
func (*APIV1Service) HandleLanguages(c echo.Context) error {
	codes := speech.SupportedLanguages()
	languages := make([]LanguageInfo, 0, len(codes))
	for _, code := range codes {
		lang, err := speech.ResolveLanguage(code)
		if err != nil {
			continue
		}
		languages = append(languages, LanguageInfo{Code: lang.Code, Name: lang.Name()})
	}
	return c.JSON(http.StatusOK, languages)
}

func acceptsAudio(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get(echo.HeaderAccept), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(mediaType, speech.MIMEType) {
			return true
		}
	}
	return false
}
