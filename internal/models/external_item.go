package models

// ExternalItem is one row harvested from a supplier price-list spreadsheet.
// BrandName is required; everything else is passthrough metadata that the
// matcher ignores but the review UI displays.
type ExternalItem struct {
	SheetName    string `json:"sheet_name"`
	RowNumber    int    `json:"row_number"`
	BrandName    string `json:"brand_name"`
	GenericName  string `json:"generic_name"`
	Packing      string `json:"packing"`
	Manufacturer string `json:"manufacturer"`
	BillingRate  string `json:"billing_rate"`
	MRP          string `json:"mrp"`
	QtyRequired  string `json:"qty_required"`
}
