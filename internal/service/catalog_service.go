package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/medingen/catalog_api/internal/models"
	"github.com/medingen/catalog_api/internal/repository"
	"github.com/medingen/catalog_api/internal/utils"
)

// CatalogStore is the store adapter for catalog CRUD.
type CatalogStore interface {
	List(filter *repository.ProductFilter) (*repository.ProductListResult, error)
	GetByID(id int64) (*models.Product, error)
	Search(term string) ([]models.Product, error)
	GetAllForExport() ([]models.Product, error)
	Create(p *models.Product) error
	Update(p *models.Product) error
	Delete(id int64) (int64, error)
}

// CatalogService handles product CRUD, search, and export reads.
type CatalogService struct {
	store CatalogStore
	cache CandidateCache
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(store CatalogStore, cache CandidateCache) *CatalogService {
	return &CatalogService{store: store, cache: cache}
}

// CreateProductRequest represents the request to create a new product.
type CreateProductRequest struct {
	ProductType          string           `json:"product_type"`
	Name                 string           `json:"name" binding:"required"`
	SaltName             string           `json:"salt_name"`
	Composition          string           `json:"composition"`
	Manufacturer         string           `json:"manufacturer"`
	ConsumeType          string           `json:"consume_type"`
	Packaging            string           `json:"packaging"`
	ScheduleCategory     string           `json:"schedule_category"`
	UsedFor              string           `json:"used_for"`
	QuantityAvailable    *int             `json:"quantity_available"`
	PricingOld           *decimal.Decimal `json:"product_pricing_old"`
	PricingNew           *decimal.Decimal `json:"product_pricing_new"`
	PrescriptionRequired bool             `json:"prescription_required"`
	VisibilityStatus     string           `json:"visibility_status"`
	Tags                 string           `json:"tags"`
	Categories           string           `json:"categories"`
}

// UpdateProductRequest represents a partial product update; nil fields are
// left untouched.
type UpdateProductRequest struct {
	ProductType          *string          `json:"product_type"`
	Name                 *string          `json:"name"`
	RCPharamProductName  *string          `json:"rc_pharam_product_name"`
	SaltName             *string          `json:"salt_name"`
	Composition          *string          `json:"composition"`
	Manufacturer         *string          `json:"manufacturer"`
	ConsumeType          *string          `json:"consume_type"`
	Packaging            *string          `json:"packaging"`
	ScheduleCategory     *string          `json:"schedule_category"`
	UsedFor              *string          `json:"used_for"`
	QuantityAvailable    *int             `json:"quantity_available"`
	PricingOld           *decimal.Decimal `json:"product_pricing_old"`
	PricingNew           *decimal.Decimal `json:"product_pricing_new"`
	PrescriptionRequired *bool            `json:"prescription_required"`
	VisibilityStatus     *string          `json:"visibility_status"`
	Tags                 *string          `json:"tags"`
	Categories           *string          `json:"categories"`
}

// ListProducts returns a catalog page.
func (s *CatalogService) ListProducts(filter *repository.ProductFilter) (*repository.ProductListResult, error) {
	result, err := s.store.List(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}
	return result, nil
}

// GetProduct retrieves a product by id.
func (s *CatalogService) GetProduct(id int64) (*models.Product, error) {
	product, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", utils.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}
	return product, nil
}

// SearchProducts runs the free-text catalog search.
func (s *CatalogService) SearchProducts(term string) ([]models.Product, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%w: search term required", utils.ErrInvalidInput)
	}
	products, err := s.store.Search(term)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}
	return products, nil
}

// ExportProducts returns the full catalog for spreadsheet export.
func (s *CatalogService) ExportProducts() ([]models.Product, error) {
	products, err := s.store.GetAllForExport()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}
	return products, nil
}

// CreateProduct creates a new catalog record.
func (s *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", utils.ErrInvalidInput)
	}

	visibility := req.VisibilityStatus
	if visibility == "" {
		visibility = "visible"
	}

	product := &models.Product{
		ProductType:          req.ProductType,
		Name:                 name,
		SaltName:             req.SaltName,
		Composition:          req.Composition,
		Manufacturer:         req.Manufacturer,
		ConsumeType:          req.ConsumeType,
		Packaging:            req.Packaging,
		ScheduleCategory:     req.ScheduleCategory,
		UsedFor:              req.UsedFor,
		QuantityAvailable:    req.QuantityAvailable,
		PricingOld:           toNullDecimal(req.PricingOld),
		PricingNew:           toNullDecimal(req.PricingNew),
		PrescriptionRequired: req.PrescriptionRequired,
		VisibilityStatus:     visibility,
		Tags:                 req.Tags,
		Categories:           req.Categories,
		InStock:              false,
	}

	if err := s.store.Create(product); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}

	s.invalidate(ctx)
	log.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return product, nil
}

// UpdateProduct applies a partial update to an existing record.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", utils.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}

	if req.ProductType != nil {
		product.ProductType = *req.ProductType
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be blank", utils.ErrInvalidInput)
		}
		product.Name = name
	}
	if req.RCPharamProductName != nil {
		product.RCPharamProductName = req.RCPharamProductName
	}
	if req.SaltName != nil {
		product.SaltName = *req.SaltName
	}
	if req.Composition != nil {
		product.Composition = *req.Composition
	}
	if req.Manufacturer != nil {
		product.Manufacturer = *req.Manufacturer
	}
	if req.ConsumeType != nil {
		product.ConsumeType = *req.ConsumeType
	}
	if req.Packaging != nil {
		product.Packaging = *req.Packaging
	}
	if req.ScheduleCategory != nil {
		product.ScheduleCategory = *req.ScheduleCategory
	}
	if req.UsedFor != nil {
		product.UsedFor = *req.UsedFor
	}
	if req.QuantityAvailable != nil {
		product.QuantityAvailable = req.QuantityAvailable
	}
	if req.PricingOld != nil {
		product.PricingOld = toNullDecimal(req.PricingOld)
	}
	if req.PricingNew != nil {
		product.PricingNew = toNullDecimal(req.PricingNew)
	}
	if req.PrescriptionRequired != nil {
		product.PrescriptionRequired = *req.PrescriptionRequired
	}
	if req.VisibilityStatus != nil {
		product.VisibilityStatus = *req.VisibilityStatus
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
	}
	if req.Categories != nil {
		product.Categories = *req.Categories
	}

	if err := s.store.Update(product); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}

	s.invalidate(ctx)
	return product, nil
}

// DeleteProduct removes a catalog record.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	affected, err := s.store.Delete(id)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %d", utils.ErrNotFound, id)
	}
	s.invalidate(ctx)
	log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
