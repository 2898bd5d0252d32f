package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"foreign", errors.New("boom"), KindUnknown},
		{"empty input", ErrEmptyInput, KindEmptyInput},
		{"wrapped remote", fmt.Errorf("%w: timeout", ErrRemoteService), KindRemoteService},
		{"auth beats remote", fmt.Errorf("%w: %w: 401", ErrRemoteService, ErrAuthentication), KindAuthentication},
		{"malformed", fmt.Errorf("read csv: %w", ErrMalformedInput), KindMalformedInput},
		{"io", fmt.Errorf("%w: disk full", ErrIO), KindIO},
		{"language", ErrUnsupportedLanguage, KindUnsupportedLanguage},
		{"synthesis", fmt.Errorf("%w: eof", ErrSynthesis), KindSynthesis},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "EmptyInput", KindEmptyInput.String())
	assert.Equal(t, "AuthenticationError", KindAuthentication.String())
	assert.Equal(t, "MalformedInputError", KindMalformedInput.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindEmptyInput))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindUnsupportedLanguage))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(KindMalformedInput))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(KindRemoteService))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(KindSynthesis))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindIO))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindUnknown))
}
