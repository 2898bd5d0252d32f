package v1

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/hackbot/ai/metrics"
	"github.com/hrygo/hackbot/ai/observability/logging"
	"github.com/hrygo/hackbot/internal/apperr"
	"github.com/hrygo/hackbot/plugin/tabular"
)

// HandleConvert serves POST /api/v1/convert. The multipart field "file" holds
// the table; the optional field "to" names the target format, otherwise the
// opposite of the upload's format is used.
func (s *APIV1Service) HandleConvert(c echo.Context) error {
	ctx := c.Request().Context()
	start := time.Now()

	artifact, direction, err := s.convertUpload(c)
	s.Metrics.RecordRequest(metrics.OperationConvert, time.Since(start), err)
	if err != nil {
		return err
	}
	s.Metrics.RecordConversionRows(direction, artifact.Rows)

	logging.FromContext(ctx).Info("table converted",
		"direction", direction,
		"rows", artifact.Rows,
		"columns", artifact.Columns,
		"size", len(artifact.Data),
	)

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	return c.Blob(http.StatusOK, artifact.MIMEType, artifact.Data)
}

func (s *APIV1Service) convertUpload(c echo.Context) (*tabular.Artifact, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", errors.Wrapf(apperr.ErrEmptyInput, "no file uploaded: %v", err)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", errors.Wrapf(apperr.ErrIO, "open upload: %v", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", errors.Wrapf(apperr.ErrIO, "read upload: %v", err)
	}
	if len(data) == 0 {
		return nil, "", errors.Wrap(apperr.ErrEmptyInput, "uploaded file is empty")
	}

	source, err := tabular.ParseFormat(fileHeader.Filename)
	if err != nil {
		source = tabular.DetectFormat(data)
	}
	target := source.Target()
	if to := c.FormValue("to"); to != "" {
		if target, err = tabular.ParseFormat(to); err != nil {
			return nil, "", err
		}
	}

	ctx := c.Request().Context()
	if err := s.conversionSemaphore.Acquire(ctx, 1); err != nil {
		return nil, "", err
	}
	defer s.conversionSemaphore.Release(1)

	artifact, err := s.ConvertService.Convert(ctx, source, target, bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return artifact, string(source) + "_to_" + string(target), nil
}
