package tabular

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/hrygo/hackbot/internal/apperr"
)

// DefaultSheet is the sheet name written to new workbooks.
const DefaultSheet = "Sheet1"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// builtinDateFormats are the built-in number format ids that render as dates or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// ReadXLSX parses the first worksheet of a workbook. The first row is the header.
func ReadXLSX(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(apperr.ErrIO, "read xlsx: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(apperr.ErrMalformedInput, "open xlsx: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrap(apperr.ErrMalformedInput, "open xlsx: workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(apperr.ErrMalformedInput, "read sheet %q: %v", sheet, err)
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(apperr.ErrMalformedInput, "read sheet %q: no header row", sheet)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	header := make([]string, width)
	copy(header, rows[0])

	rd := &sheetReader{file: f, sheet: sheet, date1904: uses1904(f)}
	ds := &Dataset{
		Columns: normalizeHeader(header),
		Rows:    make([][]Cell, 0, len(rows)-1),
	}
	for i, raw := range rows[1:] {
		row := make([]Cell, width)
		for col := range row {
			if col >= len(raw) {
				row[col] = EmptyCell()
				continue
			}
			cell, err := rd.cell(col+1, i+2, raw[col])
			if err != nil {
				return nil, err
			}
			row[col] = cell
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

type sheetReader struct {
	file     *excelize.File
	sheet    string
	date1904 bool
}

// cell types one raw value using its stored cell type and number format.
func (sr *sheetReader) cell(col, row int, raw string) (Cell, error) {
	if raw == "" {
		return EmptyCell(), nil
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Cell{}, errors.Wrapf(apperr.ErrMalformedInput, "cell (%d,%d): %v", col, row, err)
	}
	typ, err := sr.file.GetCellType(sr.sheet, axis)
	if err != nil {
		return Cell{}, errors.Wrapf(apperr.ErrMalformedInput, "cell %s: %v", axis, err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return BooleanCell(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError, excelize.CellTypeDate:
		return TextCell(raw), nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return TextCell(raw), nil
	}
	if sr.isDateStyled(axis) {
		if t, err := excelize.ExcelDateToTime(v, sr.date1904); err == nil {
			return TextCell(formatDate(t)), nil
		}
	}
	return NumberCell(v), nil
}

func (sr *sheetReader) isDateStyled(axis string) bool {
	idx, err := sr.file.GetCellStyle(sr.sheet, axis)
	if err != nil || idx == 0 {
		return false
	}
	style, err := sr.file.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	return builtinDateFormats[style.NumFmt]
}

func uses1904(f *excelize.File) bool {
	props, err := f.GetWorkbookProps()
	if err != nil || props.Date1904 == nil {
		return false
	}
	return *props.Date1904
}

// isDateFormatCode reports whether a custom number format code has date or
// time placeholders outside quoted literals and bracketed sections.
func isDateFormatCode(code string) bool {
	var quoted, bracket, escaped bool
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case quoted:
			quoted = r != '"'
		case bracket:
			bracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			quoted = true
		case r == '[':
			bracket = true
		case strings.ContainsRune("ymdhs", r):
			return true
		}
	}
	return false
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}

// WriteXLSX writes ds as a single-sheet workbook with a bold header row.
// Tables that do not fit a worksheet are rejected as malformed input rather
// than truncated.
func WriteXLSX(w io.Writer, ds *Dataset) error {
	if err := checkSheetLimits(ds); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(ds.Columns))
	for i, name := range ds.Columns {
		header[i] = name
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return errors.Wrapf(apperr.ErrMalformedInput, "write xlsx header: %v", err)
	}
	if len(ds.Columns) > 0 {
		if err := boldHeader(f, len(ds.Columns)); err != nil {
			return err
		}
	}

	values := make([]any, len(ds.Columns))
	for i, row := range ds.Rows {
		for j, cell := range row {
			values[j] = cell.Value()
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrapf(apperr.ErrMalformedInput, "write xlsx row %d: %v", i+1, err)
		}
		if err := f.SetSheetRow(DefaultSheet, axis, &values); err != nil {
			return errors.Wrapf(apperr.ErrMalformedInput, "write xlsx row %d: %v", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrapf(apperr.ErrIO, "write xlsx: %v", err)
	}
	return nil
}

// checkSheetLimits reports tables that excelize would otherwise clip: more
// columns or rows than a worksheet holds, or a cell longer than
// excelize.TotalCellChars.
func checkSheetLimits(ds *Dataset) error {
	if len(ds.Columns) > excelize.MaxColumns {
		return errors.Wrapf(apperr.ErrMalformedInput, "%d columns exceed the worksheet limit of %d", len(ds.Columns), excelize.MaxColumns)
	}
	if ds.NumRows()+1 > excelize.TotalRows {
		return errors.Wrapf(apperr.ErrMalformedInput, "%d rows exceed the worksheet limit of %d", ds.NumRows()+1, excelize.TotalRows)
	}
	for j, name := range ds.Columns {
		if utf8.RuneCountInString(name) > excelize.TotalCellChars {
			return errors.Wrapf(apperr.ErrMalformedInput, "header of column %d exceeds %d characters", j+1, excelize.TotalCellChars)
		}
	}
	for i, row := range ds.Rows {
		for j, cell := range row {
			if cell.Kind == Text && utf8.RuneCountInString(cell.Str) > excelize.TotalCellChars {
				return errors.Wrapf(apperr.ErrMalformedInput, "row %d column %d exceeds %d characters", i+1, j+1, excelize.TotalCellChars)
			}
		}
	}
	return nil
}

func boldHeader(f *excelize.File, width int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrapf(apperr.ErrIO, "header style: %v", err)
	}
	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return errors.Wrapf(apperr.ErrIO, "header style: %v", err)
	}
	if err := f.SetCellStyle(DefaultSheet, "A1", last, style); err != nil {
		return errors.Wrapf(apperr.ErrIO, "header style: %v", err)
	}
	return nil
}
