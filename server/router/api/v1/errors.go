package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/hackbot/ai/observability/logging"
	"github.com/hrygo/hackbot/internal/apperr"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// HTTPErrorHandler renders taxonomy errors with their mapped status and
// echo transport errors (404, 413, 429) with their own.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("request failed",
			"path", c.Path(),
			"status", status,
			"error", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Warn("failed to write error response", "error", err)
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && apperr.KindOf(err) == apperr.KindUnknown {
		return httpErr.Code, ErrorResponse{
			Error: fmt.Sprint(httpErr.Message),
			Kind:  http.StatusText(httpErr.Code),
		}
	}

	kind := apperr.KindOf(err)
	if kind == apperr.KindUnknown {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out", Kind: "Timeout"}
		case errors.Is(err, context.Canceled):
			return http.StatusServiceUnavailable, ErrorResponse{Error: "request canceled", Kind: "Canceled"}
		}
	}
	return apperr.HTTPStatus(kind), ErrorResponse{Error: err.Error(), Kind: kind.String()}
}

func malformedBody(err error) error {
	return fmt.Errorf("%w: invalid request body: %v", apperr.ErrMalformedInput, err)
}
