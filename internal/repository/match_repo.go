package repository

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/medingen/catalog_api/internal/matching"
)

// CandidateRow is the projection of a catalog record used for candidate
// scoring: the four searchable text fields plus display attributes.
type CandidateRow struct {
	ProductID    int64               `db:"product_id"`
	Name         string              `db:"name"`
	RCName       *string             `db:"rc_pharam_product_name"`
	Composition  string              `db:"composition"`
	SaltName     string              `db:"salt_name"`
	Manufacturer string              `db:"manufacturer"`
	Price        decimal.NullDecimal `db:"product_pricing_new"`
	InStock      bool                `db:"in_stock"`
}

// NewProductFields carries the column values for a product created by match
// approval when no existing catalog id is supplied.
type NewProductFields struct {
	Name         string
	Composition  string
	Manufacturer string
	Packaging    string
	RCName       string
}

// MatchRepository is the store adapter for the reconciliation subsystem.
type MatchRepository struct {
	db *sqlx.DB
}

// NewMatchRepository creates a new MatchRepository.
func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// FetchCandidateSuperset returns up to limit records where ANY token appears
// as a substring (case-insensitive) in ANY of name, rc_pharam_product_name,
// composition, or salt_name. The store-side filter is an optimization only;
// the caller recomputes scores independently.
func (r *MatchRepository) FetchCandidateSuperset(tokens []string, limit int) ([]CandidateRow, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens)+1)
	for i, tok := range tokens {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR rc_pharam_product_name ILIKE $%d OR composition ILIKE $%d OR salt_name ILIKE $%d)",
			i+1, i+1, i+1, i+1))
		args = append(args, "%"+tok+"%")
	}

	q := fmt.Sprintf(`
		SELECT product_id, name, rc_pharam_product_name, composition, salt_name,
			manufacturer, product_pricing_new, in_stock
		FROM products
		WHERE %s
		LIMIT $%d`, strings.Join(conditions, " OR "), len(tokens)+1)
	args = append(args, limit)

	var rows []CandidateRow
	if err := r.db.Select(&rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchAllMatchFields scans the whole catalog's match-relevant fields once,
// ordered by ascending id so duplicate-name resolution stays deterministic.
func (r *MatchRepository) FetchAllMatchFields() ([]matching.Record, error) {
	const q = `
		SELECT product_id, name, composition, rc_pharam_product_name, in_stock
		FROM products
		ORDER BY product_id ASC`

	rows, err := r.db.Queryx(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []matching.Record
	for rows.Next() {
		var rec matching.Record
		if err := rows.Scan(&rec.ProductID, &rec.Name, &rec.Composition, &rec.RCName, &rec.InStock); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpdateLink sets the approved name and stock flag on an existing record.
// Returns the number of rows touched; zero means the id does not exist.
func (r *MatchRepository) UpdateLink(productID int64, rcName string, inStock bool) (int64, error) {
	const q = `
		UPDATE products
		SET rc_pharam_product_name = $2, in_stock = $3, updated_at = NOW()
		WHERE product_id = $1`
	res, err := r.db.Exec(q, productID, rcName, inStock)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertMatched creates a catalog record for an approved match that has no
// existing catalog counterpart. The record is born linked and in stock.
func (r *MatchRepository) InsertMatched(fields *NewProductFields) (int64, error) {
	const q = `
		INSERT INTO products (name, composition, manufacturer, packaging, rc_pharam_product_name, in_stock)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING product_id`

	var id int64
	err := r.db.QueryRowx(q,
		fields.Name,
		fields.Composition,
		fields.Manufacturer,
		fields.Packaging,
		fields.RCName,
	).Scan(&id)
	return id, err
}

// ClearLink removes the approved name and stock flag for a record. Touching
// a missing id is not an error: the desired end state already holds.
func (r *MatchRepository) ClearLink(productID int64) error {
	const q = `
		UPDATE products
		SET rc_pharam_product_name = NULL, in_stock = FALSE, updated_at = NOW()
		WHERE product_id = $1`
	_, err := r.db.Exec(q, productID)
	return err
}
