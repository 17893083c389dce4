package service

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/medingen/catalog_api/internal/models"
)

// ExportService renders the catalog as an xlsx workbook.
type ExportService struct{}

// NewExportService constructs an ExportService.
func NewExportService() *ExportService {
	return &ExportService{}
}

const exportSheet = "Products"

var exportHeader = []string{
	"product_id", "product_type", "name", "rc_pharam_product_name", "salt_name",
	"composition", "manufacturer", "consume_type", "packaging", "schedule_category",
	"used_for", "quantity_available", "product_pricing_old", "product_pricing_new",
	"prescription_required", "visibility_status", "tags", "categories", "in_stock",
	"created_at", "updated_at",
}

// BuildWorkbook writes all products into a single-sheet workbook. The caller
// owns the returned file and must Close it.
func (s *ExportService) BuildWorkbook(products []models.Product) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	for i, p := range products {
		row := []interface{}{
			p.ID,
			p.ProductType,
			p.Name,
			strOrEmpty(p.RCPharamProductName),
			p.SaltName,
			p.Composition,
			p.Manufacturer,
			p.ConsumeType,
			p.Packaging,
			p.ScheduleCategory,
			p.UsedFor,
			intOrEmpty(p.QuantityAvailable),
			decimalOrEmpty(p.PricingOld),
			decimalOrEmpty(p.PricingNew),
			p.PrescriptionRequired,
			p.VisibilityStatus,
			p.Tags,
			p.Categories,
			p.InStock,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
			p.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		axis := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(exportSheet, axis, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(i *int) interface{} {
	if i == nil {
		return ""
	}
	return *i
}

func decimalOrEmpty(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return ""
	}
	f, _ := d.Decimal.Float64()
	return f
}
