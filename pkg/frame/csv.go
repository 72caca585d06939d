package frame

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/logger"
)

// coerce converts a CSV cell to a typed value: empty cells become nil,
// numeric cells become float64, everything else stays a string.
func coerce(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return v
	}
	return trimmed
}

// ReadCSVFile eagerly reads a headered CSV file into a frame.
func ReadCSVFile(path string) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open "+path)
	}
	defer fh.Close()
	f, err := ReadCSV(fh)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to parse "+path)
	}
	logger.Debug("loaded csv file",
		zap.String("path", path),
		zap.Int("rows", f.NumRows()))
	return f, nil
}

// ReadCSV reads headered CSV data into a frame, coercing numeric cells.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return New(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParser, "failed to read csv header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	f := New(header...)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParser, "failed to read csv row")
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = coerce(row[i])
			}
		}
		f.recs = append(f.recs, rec)
	}
	return f, nil
}

// LazyCSV returns a lazy frame that reads the file on first Collect.
func LazyCSV(path string) *LazyFrame {
	return NewLazy(func() (*Frame, error) { return ReadCSVFile(path) })
}
