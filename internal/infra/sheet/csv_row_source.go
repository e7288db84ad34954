// Package sheet adapts a spreadsheet export (CSV) to the seller.RowSource
// contract used by the batch send loop.
package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"

	"seller_notification_service/internal/domain/seller"
)

// Column layout of the sellers sheet, after the configured header rows.
const (
	colSellerID = iota
	colSellerName
	colEmail
	colResult
	colReportLink
	columnCount
)

// CSVRowSource reads seller notification rows from a CSV file.
type CSVRowSource struct {
	path       string
	headerRows int
	logger     *log.Logger
}

func NewCSVRowSource(path string, headerRows int, logger *log.Logger) *CSVRowSource {
	return &CSVRowSource{path: path, headerRows: headerRows, logger: logger}
}

// Rows reads and parses every data row. Inability to open or read the file
// is fatal for the run. Individual malformed rows (wrong column count,
// unknown result, empty email) are logged and skipped, never aborting the
// batch.
func (s *CSVRowSource) Rows(ctx context.Context) ([]*seller.Notification, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sellers sheet %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // Validate column count per row ourselves
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read sellers sheet %s: %w", s.path, err)
	}

	if s.headerRows >= len(all) {
		s.logger.Printf("WARN: Sellers sheet %s has no data rows after %d header row(s).", s.path, s.headerRows)
		return nil, nil
	}

	rows := make([]*seller.Notification, 0, len(all)-s.headerRows)
	for i, record := range all[s.headerRows:] {
		rowNum := i + s.headerRows + 1 // 1-based, as a spreadsheet user would count

		if len(record) < columnCount {
			s.logger.Printf("WARN: Row %d has %d columns, expected %d. Skipping.", rowNum, len(record), columnCount)
			continue
		}

		result, err := seller.ParseResult(record[colResult])
		if err != nil {
			s.logger.Printf("WARN: Row %d: %v. Skipping.", rowNum, err)
			continue
		}

		n := &seller.Notification{
			SellerID:   record[colSellerID],
			SellerName: record[colSellerName],
			Email:      record[colEmail],
			Result:     result,
			ReportLink: record[colReportLink],
		}
		if len(n.Recipients()) == 0 {
			s.logger.Printf("WARN: Row %d has no recipient addresses. Skipping.", rowNum)
			continue
		}
		rows = append(rows, n)
	}

	s.logger.Printf("INFO: Loaded %d seller notification row(s) from %s.", len(rows), s.path)
	return rows, nil
}
