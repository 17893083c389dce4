package models

import "github.com/shopspring/decimal"

// MatchCandidate is a catalog record annotated with its token-overlap score
// against a search phrase. Ephemeral; recomputed per request, never persisted.
type MatchCandidate struct {
	ProductID           int64               `json:"product_id"`
	Name                string              `json:"name"`
	RCPharamProductName *string             `json:"rc_pharam_product_name"`
	Composition         string              `json:"composition"`
	SaltName            string              `json:"salt_name"`
	Manufacturer        string              `json:"manufacturer"`
	Price               decimal.NullDecimal `json:"price"`
	MatchScore          int                 `json:"match_score"`
	MatchType           string              `json:"match_type"`
	InStock             bool                `json:"inStock"`
}

// MatchedProduct is one resolved entry from a batch reconciliation pass.
// It carries the matched catalog record alongside the submitted brand and
// generic text for audit display.
type MatchedProduct struct {
	ProductID           int64   `json:"product_id"`
	Name                string  `json:"name"`
	Composition         string  `json:"composition"`
	RCPharamProductName *string `json:"rc_pharam_product_name"`
	InStock             bool    `json:"inStock"`
	MatchedBrand        string  `json:"matched_brand"`
	MatchedGeneric      string  `json:"matched_generic"`
}

// UnmatchedItem is a submitted item with no catalog counterpart.
type UnmatchedItem struct {
	BrandName   string `json:"brand_name"`
	GenericName string `json:"generic_name"`
}

// BatchMatchResult aggregates a batch reconciliation pass.
type BatchMatchResult struct {
	TotalSubmitted int              `json:"total_submitted"`
	MatchedCount   int              `json:"matched_count"`
	UnmatchedCount int              `json:"unmatched_count"`
	Matched        []MatchedProduct `json:"matched_products"`
	Unmatched      []UnmatchedItem  `json:"unmatched_products"`
}
