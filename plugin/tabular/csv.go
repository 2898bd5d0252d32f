package tabular

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"github.com/hrygo/hackbot/internal/apperr"
)

// utf8BOM is stripped from CSV input; spreadsheet tools often prepend it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses a whole CSV document. The first record is the header.
func ReadCSV(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(apperr.ErrIO, "read csv: %v", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = 0 // every record must match the header width

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(apperr.ErrMalformedInput, "parse csv: %v", err)
	}
	if len(records) == 0 {
		return nil, errors.Wrap(apperr.ErrMalformedInput, "parse csv: no header row")
	}

	ds := &Dataset{
		Columns: normalizeHeader(records[0]),
		Rows:    make([][]Cell, 0, len(records)-1),
	}
	for _, record := range records[1:] {
		row := make([]Cell, len(record))
		for i, raw := range record {
			row[i] = InferCell(raw)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// WriteCSV serializes ds with its header row, each cell in canonical text form.
func WriteCSV(w io.Writer, ds *Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ds.Columns); err != nil {
		return errors.Wrapf(apperr.ErrIO, "write csv header: %v", err)
	}

	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, cell := range row {
			record[i] = cell.String()
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(apperr.ErrIO, "write csv row: %v", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrapf(apperr.ErrIO, "flush csv: %v", err)
	}
	return nil
}
