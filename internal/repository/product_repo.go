package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/medingen/catalog_api/internal/models"
)

// productColumns is the full column list selected for catalog reads.
const productColumns = `product_id, product_type, name, rc_pharam_product_name, salt_name,
	composition, manufacturer, consume_type, packaging, schedule_category, used_for,
	quantity_available, product_pricing_old, product_pricing_new, prescription_required,
	visibility_status, tags, categories, in_stock, created_at, updated_at`

// ProductRepository handles data access for catalog products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter holds filters for catalog list queries.
type ProductFilter struct {
	Search           string
	VisibilityStatus string
	InStock          *bool
	Page             int
	Limit            int
}

// ProductListResult contains paginated catalog results.
type ProductListResult struct {
	Products   []models.Product
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// List returns catalog products newest-first with optional filters and pagination.
func (r *ProductRepository) List(filter *ProductFilter) (*ProductListResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	offset := (filter.Page - 1) * filter.Limit

	// Build dynamic WHERE clause
	baseWhere := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (name ILIKE $%d OR salt_name ILIKE $%d OR manufacturer ILIKE $%d OR composition ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.VisibilityStatus != "" {
		baseWhere += fmt.Sprintf(" AND visibility_status = $%d", argIdx)
		args = append(args, filter.VisibilityStatus)
		argIdx++
	}
	if filter.InStock != nil {
		baseWhere += fmt.Sprintf(" AND in_stock = $%d", argIdx)
		args = append(args, *filter.InStock)
		argIdx++
	}

	countQuery := `SELECT COUNT(1) FROM products ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, err
	}
	totalPages := (total + filter.Limit - 1) / filter.Limit

	listQuery := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY product_id DESC LIMIT $%d OFFSET $%d`,
		productColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var products []models.Product
	if err := r.db.Select(&products, listQuery, args...); err != nil {
		return nil, err
	}

	return &ProductListResult{
		Products:   products,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(id int64) (*models.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products WHERE product_id = $1 LIMIT 1`, productColumns)
	var p models.Product
	if err := r.db.Get(&p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// Search returns products whose name, salt name, manufacturer, or composition
// contains the term (case-insensitive), newest first.
func (r *ProductRepository) Search(term string) ([]models.Product, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE name ILIKE $1
		OR salt_name ILIKE $1
		OR manufacturer ILIKE $1
		OR composition ILIKE $1
		ORDER BY product_id DESC`, productColumns)

	var products []models.Product
	if err := r.db.Select(&products, q, "%"+term+"%"); err != nil {
		return nil, err
	}
	return products, nil
}

// GetAllForExport returns the full catalog newest-first for spreadsheet export.
func (r *ProductRepository) GetAllForExport() ([]models.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products ORDER BY product_id DESC`, productColumns)
	var products []models.Product
	if err := r.db.Select(&products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a new product and populates its id and timestamps.
func (r *ProductRepository) Create(p *models.Product) error {
	const q = `
		INSERT INTO products (
			product_type, name, rc_pharam_product_name, salt_name, composition,
			manufacturer, consume_type, packaging, schedule_category, used_for,
			quantity_available, product_pricing_old, product_pricing_new,
			prescription_required, visibility_status, tags, categories, in_stock
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING product_id, created_at, updated_at`

	return r.db.QueryRowx(q,
		p.ProductType,
		p.Name,
		p.RCPharamProductName,
		p.SaltName,
		p.Composition,
		p.Manufacturer,
		p.ConsumeType,
		p.Packaging,
		p.ScheduleCategory,
		p.UsedFor,
		p.QuantityAvailable,
		p.PricingOld,
		p.PricingNew,
		p.PrescriptionRequired,
		p.VisibilityStatus,
		p.Tags,
		p.Categories,
		p.InStock,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update rewrites an existing product row.
func (r *ProductRepository) Update(p *models.Product) error {
	const q = `
		UPDATE products SET
			product_type = $1, name = $2, rc_pharam_product_name = $3, salt_name = $4,
			composition = $5, manufacturer = $6, consume_type = $7, packaging = $8,
			schedule_category = $9, used_for = $10, quantity_available = $11,
			product_pricing_old = $12, product_pricing_new = $13, prescription_required = $14,
			visibility_status = $15, tags = $16, categories = $17, in_stock = $18,
			updated_at = NOW()
		WHERE product_id = $19
		RETURNING updated_at`

	return r.db.QueryRowx(q,
		p.ProductType,
		p.Name,
		p.RCPharamProductName,
		p.SaltName,
		p.Composition,
		p.Manufacturer,
		p.ConsumeType,
		p.Packaging,
		p.ScheduleCategory,
		p.UsedFor,
		p.QuantityAvailable,
		p.PricingOld,
		p.PricingNew,
		p.PrescriptionRequired,
		p.VisibilityStatus,
		p.Tags,
		p.Categories,
		p.InStock,
		p.ID,
	).Scan(&p.UpdatedAt)
}

// Delete removes a product by id. Returns the number of rows deleted so the
// caller can report missing ids.
func (r *ProductRepository) Delete(id int64) (int64, error) {
	const q = `DELETE FROM products WHERE product_id = $1`
	res, err := r.db.Exec(q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
