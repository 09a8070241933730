package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	propertydomain "propcrm-backend/internal/property/domain"
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("file must be a CSV")
	ErrCSVParse        = errors.New("CSV parsing failed")
	ErrEmptyFile       = errors.New("no data found in CSV")
)

// MissingHeadersError names the required columns absent from the header row.
type MissingHeadersError struct {
	Missing []string
}

func (e *MissingHeadersError) Error() string {
	return fmt.Sprintf("missing required headers: %s", strings.Join(e.Missing, ", "))
}

// ImportResult summarizes one CSV upload.
type ImportResult struct {
	Total      int      `json:"total"`
	Processed  int      `json:"processed"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
}

// PropertyUsecase defines the interface for property use cases
type PropertyUsecase interface {
	// ImportCSV ingests a PropStream export: maps columns, validates rows,
	// batch-inserts properties and writes a raw audit record for every row.
	ImportCSV(ctx context.Context, userID, filename string, size int64, reader io.Reader) (*ImportResult, error)
	ListProperties(limit, offset int, city, state string) ([]*propertydomain.Property, int64, error)
}
