package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/medingen/catalog_api/internal/models"
	"github.com/medingen/catalog_api/internal/utils"
)

// ImportService parses supplier price-list workbooks into ExternalItems.
// Parsing only; matching against the catalog is MatchService's job.
type ImportService struct{}

// NewImportService constructs an ImportService.
func NewImportService() *ImportService {
	return &ImportService{}
}

// ImportResult is the outcome of parsing one workbook.
type ImportResult struct {
	Items           []models.ExternalItem `json:"data"`
	Count           int                   `json:"count"`
	SheetsProcessed int                   `json:"sheets_processed"`
}

// ParseWorkbook reads an xlsx stream and harvests product rows from every
// sheet. Each sheet's brand column is the first header containing BRAND or
// NAME; sheets without one are skipped. Rows with a blank brand are dropped.
func (s *ImportService) ParseWorkbook(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable excel workbook", utils.ErrInvalidInput)
	}
	defer f.Close()

	result := &ImportResult{Items: []models.ExternalItem{}}

	for _, sheet := range f.GetSheetList() {
		result.SheetsProcessed++

		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}

		header := rows[0]
		columns := make(map[string]int, len(header))
		brandCol := -1
		for i, h := range header {
			name := strings.ToUpper(strings.TrimSpace(h))
			columns[name] = i
			if brandCol < 0 && (strings.Contains(name, "BRAND") || strings.Contains(name, "NAME")) {
				brandCol = i
			}
		}
		if brandCol < 0 {
			log.Debug().Str("sheet", sheet).Msg("no brand column found, sheet skipped")
			continue
		}

		for i, row := range rows[1:] {
			brand := strings.TrimSpace(cell(row, brandCol))
			if brand == "" {
				continue
			}
			result.Items = append(result.Items, models.ExternalItem{
				SheetName: sheet,
				// +2: headers occupy row 1 and spreadsheet rows are 1-based.
				RowNumber:    i + 2,
				BrandName:    brand,
				GenericName:  strings.TrimSpace(cell(row, col(columns, "GENERIC NAME"))),
				Packing:      strings.TrimSpace(cell(row, col(columns, "PACKING"))),
				Manufacturer: strings.TrimSpace(cell(row, col(columns, "MFR"))),
				BillingRate:  strings.TrimSpace(cell(row, col(columns, "BILLING RATE"))),
				MRP:          strings.TrimSpace(cell(row, col(columns, "MRP"))),
				QtyRequired:  strings.TrimSpace(cell(row, col(columns, "QTY REQUIRED"))),
			})
		}
	}

	result.Count = len(result.Items)
	return result, nil
}

// col returns the index of a named column, or -1 when absent.
func col(columns map[string]int, name string) int {
	if i, ok := columns[name]; ok {
		return i
	}
	return -1
}

// cell returns a cell value, tolerating ragged rows and missing columns.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
