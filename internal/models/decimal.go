package models

import "github.com/shopspring/decimal"

// Prices serialize as bare JSON numbers, null when unset. Without this the
// decimal package quotes every value ("22.1"), which breaks clients parsing
// price fields as numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
