package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/hackbot/ai/e2e/openaitest"
	"github.com/hrygo/hackbot/internal/apperr"
)

func TestResolveLanguage(t *testing.T) {
	testCases := []struct {
		input string
		code  string
		name  string
	}{
		{"", "en", "English"},
		{"en", "en", "English"},
		{"EN-us", "en", "English"},
		{" de ", "de", "German"},
		{"pt-PT", "pt-PT", "Portuguese"},
		{"pt-BR", "pt", "Portuguese"},
		{"fr-CA", "fr-CA", "French"},
		{"es-MX", "es", "Spanish"},
		{"zh-TW", "zh-TW", "Chinese"},
		{"ja", "ja", "Japanese"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			lang, err := ResolveLanguage(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.code, lang.Code)
			assert.Equal(t, tc.name, lang.Name())
		})
	}
}

func TestResolveLanguage_Unsupported(t *testing.T) {
	for _, input := range []string{"tlh", "xx-!!", "not a language", "123", "und", "und-US", "und-Latn"} {
		t.Run(input, func(t *testing.T) {
			_, err := ResolveLanguage(input)
			require.Error(t, err)
			assert.Equal(t, apperr.KindUnsupportedLanguage, apperr.KindOf(err))
		})
	}
}

func TestSupportedLanguages(t *testing.T) {
	langs := SupportedLanguages()
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "zh-CN")

	// Every advertised code resolves to itself.
	for _, code := range langs {
		lang, err := ResolveLanguage(code)
		require.NoError(t, err, code)
		assert.Equal(t, code, lang.Code)
	}

	langs[0] = "mutated"
	assert.NotContains(t, SupportedLanguages(), "mutated")
}

func TestIsMP3(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		want bool
	}{
		{"sample with ID3", openaitest.SampleMP3(), true},
		{"bare frame", []byte{0xFF, 0xFB, 0x90, 0x64, 0x00}, true},
		{"empty", nil, false},
		{"too short", []byte{0xFF, 0xFB}, false},
		{"ID3 without frames", []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 0}, false},
		{"bad syncsafe size", []byte{'I', 'D', '3', 4, 0, 0, 0x80, 0, 0, 0, 0xFF, 0xFB, 0x90, 0x64}, false},
		{"reserved version", []byte{0xFF, 0xEB, 0x90, 0x64}, false},
		{"bad bitrate", []byte{0xFF, 0xFB, 0xF0, 0x64}, false},
		{"bad sample rate", []byte{0xFF, 0xFB, 0x9C, 0x64}, false},
		{"wav", []byte("RIFF\x00\x00\x00\x00WAVE"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsMP3(tc.data))
		})
	}
}
