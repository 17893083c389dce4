package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry in the products table.
// Fields are tagged for both DB scanning and JSON serialization.
// rc_pharam_product_name is the externally-approved brand name; it is set
// together with in_stock by match approval and cleared together by unmatch.
type Product struct {
	ID                   int64               `db:"product_id" json:"product_id"`
	ProductType          string              `db:"product_type" json:"product_type"`
	Name                 string              `db:"name" json:"name"`
	RCPharamProductName  *string             `db:"rc_pharam_product_name" json:"rc_pharam_product_name"`
	SaltName             string              `db:"salt_name" json:"salt_name"`
	Composition          string              `db:"composition" json:"composition"`
	Manufacturer         string              `db:"manufacturer" json:"manufacturer"`
	ConsumeType          string              `db:"consume_type" json:"consume_type"`
	Packaging            string              `db:"packaging" json:"packaging"`
	ScheduleCategory     string              `db:"schedule_category" json:"schedule_category"`
	UsedFor              string              `db:"used_for" json:"used_for"`
	QuantityAvailable    *int                `db:"quantity_available" json:"quantity_available"`
	PricingOld           decimal.NullDecimal `db:"product_pricing_old" json:"product_pricing_old"`
	PricingNew           decimal.NullDecimal `db:"product_pricing_new" json:"product_pricing_new"`
	PrescriptionRequired bool                `db:"prescription_required" json:"prescription_required"`
	VisibilityStatus     string              `db:"visibility_status" json:"visibility_status"`
	Tags                 string              `db:"tags" json:"tags"`
	Categories           string              `db:"categories" json:"categories"`
	InStock              bool                `db:"in_stock" json:"inStock"`
	CreatedAt            time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time           `db:"updated_at" json:"updated_at"`
}
