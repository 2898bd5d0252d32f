// Package apperr defines the error taxonomy shared by the answer, speech and
// conversion pipelines. Components wrap one or more sentinels and callers
// classify failures with errors.Is or KindOf.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrEmptyInput          = errors.New("empty input")
	ErrAuthentication      = errors.New("authentication error")
	ErrRemoteService       = errors.New("remote service error")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrSynthesis           = errors.New("speech synthesis error")
	ErrMalformedInput      = errors.New("malformed input")
	ErrIO                  = errors.New("i/o error")
)

// Kind is the classified category of an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyInput
	KindAuthentication
	KindRemoteService
	KindUnsupportedLanguage
	KindSynthesis
	KindMalformedInput
	KindIO
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "EmptyInput"
	case KindAuthentication:
		return "AuthenticationError"
	case KindRemoteService:
		return "RemoteServiceError"
	case KindUnsupportedLanguage:
		return "UnsupportedLanguageError"
	case KindSynthesis:
		return "SynthesisError"
	case KindMalformedInput:
		return "MalformedInputError"
	case KindIO:
		return "IOError"
	default:
		return "Unknown"
	}
}

// Ordered so that the more specific kind wins when an error wraps several
// sentinels. An LLM 401 wraps both ErrAuthentication and ErrRemoteService,
// and KindOf reports KindAuthentication.
var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrEmptyInput, KindEmptyInput},
	{ErrAuthentication, KindAuthentication},
	{ErrUnsupportedLanguage, KindUnsupportedLanguage},
	{ErrMalformedInput, KindMalformedInput},
	{ErrRemoteService, KindRemoteService},
	{ErrSynthesis, KindSynthesis},
	{ErrIO, KindIO},
}

// KindOf classifies err. Errors outside the taxonomy are KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// HTTPStatus maps a kind to the status code the API answers with.
func HTTPStatus(k Kind) int {
	switch k {
	case KindEmptyInput, KindUnsupportedLanguage:
		return http.StatusBadRequest
	case KindMalformedInput:
		return http.StatusUnprocessableEntity
	case KindAuthentication, KindRemoteService, KindSynthesis:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
