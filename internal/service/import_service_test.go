package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/medingen/catalog_api/internal/utils"
)

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i := range rows {
			cellRef, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cellRef, &rows[i]))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestParseWorkbook(t *testing.T) {
	svc := NewImportService()

	t.Run("harvests rows using the brand column", func(t *testing.T) {
		r := buildWorkbook(t, map[string][][]interface{}{
			"Price List": {
				{"BRAND NAME", "GENERIC NAME", "PACKING", "MFR", "BILLING RATE", "MRP", "QTY REQUIRED"},
				{"Dolo 650", "Paracetamol", "15s", "Micro Labs", "22.10", "30.91", "100"},
				{"", "Orphan Generic", "", "", "", "", ""},
				{"  Crocin  ", "Paracetamol", "", "GSK", "", "", ""},
			},
		})

		result, err := svc.ParseWorkbook(r)
		require.NoError(t, err)
		assert.Equal(t, 1, result.SheetsProcessed)
		require.Equal(t, 2, result.Count)

		first := result.Items[0]
		assert.Equal(t, "Price List", first.SheetName)
		assert.Equal(t, 2, first.RowNumber)
		assert.Equal(t, "Dolo 650", first.BrandName)
		assert.Equal(t, "Paracetamol", first.GenericName)
		assert.Equal(t, "Micro Labs", first.Manufacturer)
		assert.Equal(t, "22.10", first.BillingRate)

		second := result.Items[1]
		assert.Equal(t, "Crocin", second.BrandName, "brand is trimmed")
		assert.Equal(t, 4, second.RowNumber, "blank-brand rows keep their original row numbers")
	})

	t.Run("sheets without a brand column are skipped", func(t *testing.T) {
		r := buildWorkbook(t, map[string][][]interface{}{
			"Notes": {
				{"REMARK", "DATE"},
				{"hello", "2026-01-01"},
			},
		})

		result, err := svc.ParseWorkbook(r)
		require.NoError(t, err)
		assert.Equal(t, 1, result.SheetsProcessed)
		assert.Equal(t, 0, result.Count)
	})

	t.Run("header containing NAME qualifies as the brand column", func(t *testing.T) {
		r := buildWorkbook(t, map[string][][]interface{}{
			"Alt": {
				{"PRODUCT NAME", "GENERIC NAME"},
				{"Paracip", "Paracetamol 500mg"},
			},
		})

		result, err := svc.ParseWorkbook(r)
		require.NoError(t, err)
		require.Equal(t, 1, result.Count)
		assert.Equal(t, "Paracip", result.Items[0].BrandName)
	})

	t.Run("ragged rows are tolerated", func(t *testing.T) {
		r := buildWorkbook(t, map[string][][]interface{}{
			"Ragged": {
				{"BRAND", "GENERIC NAME", "PACKING"},
				{"Solo"},
			},
		})

		result, err := svc.ParseWorkbook(r)
		require.NoError(t, err)
		require.Equal(t, 1, result.Count)
		assert.Equal(t, "Solo", result.Items[0].BrandName)
		assert.Equal(t, "", result.Items[0].GenericName)
	})

	t.Run("garbage input is invalid, not fatal", func(t *testing.T) {
		_, err := svc.ParseWorkbook(bytes.NewReader([]byte("not a zip archive")))
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})
}
