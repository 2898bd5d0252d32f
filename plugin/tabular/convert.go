package tabular

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/hackbot/internal/apperr"
)

// Format is a supported tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	CSVMIMEType  = "text/csv"
	XLSXMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// outputBase is the suggested download name, without extension.
const outputBase = "converted_output"

// MIMEType returns the media type served for the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatCSV:
		return CSVMIMEType
	case FormatXLSX:
		return XLSXMIMEType
	default:
		return "application/octet-stream"
	}
}

// Filename returns the suggested download name for a converted file.
func (f Format) Filename() string {
	return outputBase + "." + string(f)
}

// ParseFormat accepts a format name, a file name or extension, or a MIME type.
func ParseFormat(s string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	switch v {
	case CSVMIMEType, "application/csv":
		return FormatCSV, nil
	case XLSXMIMEType:
		return FormatXLSX, nil
	}
	if ext := filepath.Ext(v); ext != "" {
		v = ext
	}
	switch strings.TrimPrefix(v, ".") {
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", errors.Wrapf(apperr.ErrMalformedInput, "unsupported table format %q", s)
}

// DetectFormat sniffs the payload: XLSX is a zip container, anything else is
// treated as CSV.
func DetectFormat(data []byte) Format {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return FormatXLSX
	}
	return FormatCSV
}

// Artifact is a converted file held in memory.
type Artifact struct {
	Format   Format
	Filename string
	MIMEType string
	Data     []byte
	Rows     int
	Columns  int
}

// Converter converts whole tables between CSV and XLSX. It holds no state and
// is safe for concurrent use.
type Converter struct{}

// NewConverter creates a converter.
func NewConverter() *Converter {
	return &Converter{}
}

// CSVToSpreadsheet converts a CSV document to an XLSX workbook.
func (c *Converter) CSVToSpreadsheet(ctx context.Context, r io.Reader) (*Artifact, error) {
	return c.Convert(ctx, FormatCSV, FormatXLSX, r)
}

// SpreadsheetToCSV converts the first sheet of an XLSX workbook to CSV.
func (c *Converter) SpreadsheetToCSV(ctx context.Context, r io.Reader) (*Artifact, error) {
	return c.Convert(ctx, FormatXLSX, FormatCSV, r)
}

// Convert reads r as source and writes it as target. The artifact is
// returned only when the whole table converted.
func (c *Converter) Convert(ctx context.Context, source, target Format, r io.Reader) (*Artifact, error) {
	if source == target {
		return nil, errors.Wrapf(apperr.ErrMalformedInput, "source and target are both %s", source)
	}
	if err := ctx.Err(); err != nil {
		return nil, interrupted(err)
	}

	ds, err := Read(source, r)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, interrupted(err)
	}

	var buf bytes.Buffer
	if err := Write(target, &buf, ds); err != nil {
		return nil, err
	}

	return &Artifact{
		Format:   target,
		Filename: target.Filename(),
		MIMEType: target.MIMEType(),
		Data:     buf.Bytes(),
		Rows:     ds.NumRows(),
		Columns:  len(ds.Columns),
	}, nil
}

// Read parses r in the given format.
func Read(format Format, r io.Reader) (*Dataset, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	default:
		return nil, errors.Wrapf(apperr.ErrMalformedInput, "unsupported table format %q", format)
	}
}

// Write serializes ds in the given format.
func Write(format Format, w io.Writer, ds *Dataset) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, ds)
	case FormatXLSX:
		return WriteXLSX(w, ds)
	default:
		return errors.Wrapf(apperr.ErrMalformedInput, "unsupported table format %q", format)
	}
}

// Target returns the opposite format, the default conversion direction.
func (f Format) Target() Format {
	if f == FormatXLSX {
		return FormatCSV
	}
	return FormatXLSX
}

// interrupted classifies a canceled or expired conversion as an I/O failure
// while keeping the context error matchable.
func interrupted(err error) error {
	return fmt.Errorf("%w: conversion interrupted: %w", apperr.ErrIO, err)
}
