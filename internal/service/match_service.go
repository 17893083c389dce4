package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/medingen/catalog_api/internal/matching"
	"github.com/medingen/catalog_api/internal/models"
	"github.com/medingen/catalog_api/internal/repository"
	"github.com/medingen/catalog_api/internal/utils"
)

// MatchStore is the store adapter the reconciliation subsystem requires.
type MatchStore interface {
	FetchCandidateSuperset(tokens []string, limit int) ([]repository.CandidateRow, error)
	FetchAllMatchFields() ([]matching.Record, error)
	UpdateLink(productID int64, rcName string, inStock bool) (int64, error)
	InsertMatched(fields *repository.NewProductFields) (int64, error)
	ClearLink(productID int64) error
}

// CandidateCache caches scored candidate lists between catalog writes.
type CandidateCache interface {
	Get(ctx context.Context, term string) []models.MatchCandidate
	Set(ctx context.Context, term string, candidates []models.MatchCandidate)
	Invalidate(ctx context.Context)
}

// MatchService implements candidate finding, batch reconciliation, and the
// approve/unmatch resolution actions.
type MatchService struct {
	store          MatchStore
	cache          CandidateCache
	candidateLimit int
}

// NewMatchService constructs a MatchService. cache may be nil when Redis is
// not configured; every lookup then goes to the store.
func NewMatchService(store MatchStore, cache CandidateCache, candidateLimit int) *MatchService {
	if candidateLimit <= 0 {
		candidateLimit = 200
	}
	return &MatchService{
		store:          store,
		cache:          cache,
		candidateLimit: candidateLimit,
	}
}

// FindCandidates returns catalog records scored by token overlap against the
// search phrase, best first. Ordering: score descending, then name ascending
// (case-sensitive as stored). Read-only.
func (s *MatchService) FindCandidates(ctx context.Context, searchTerm string) ([]models.MatchCandidate, error) {
	if strings.TrimSpace(searchTerm) == "" {
		return nil, fmt.Errorf("%w: search term required", utils.ErrInvalidInput)
	}

	cacheKey := matching.Normalize(searchTerm)
	if s.cache != nil {
		if cached := s.cache.Get(ctx, cacheKey); cached != nil {
			return cached, nil
		}
	}

	tokens := matching.Tokenize(searchTerm)

	rows, err := s.store.FetchCandidateSuperset(tokens, s.candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}

	candidates := make([]models.MatchCandidate, 0, len(rows))
	for _, row := range rows {
		rcName := ""
		if row.RCName != nil {
			rcName = *row.RCName
		}
		// Scores are recomputed here rather than trusted from the store-side
		// filter: the SQL predicate is a superset fetch, nothing more.
		haystack := matching.Haystack(row.Name, rcName, row.Composition, row.SaltName)
		candidates = append(candidates, models.MatchCandidate{
			ProductID:           row.ProductID,
			Name:                row.Name,
			RCPharamProductName: row.RCName,
			Composition:         row.Composition,
			SaltName:            row.SaltName,
			Manufacturer:        row.Manufacturer,
			Price:               row.Price,
			MatchScore:          matching.OverlapScore(haystack, tokens),
			MatchType:           "Match",
			InStock:             row.InStock,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].MatchScore != candidates[j].MatchScore {
			return candidates[i].MatchScore > candidates[j].MatchScore
		}
		return candidates[i].Name < candidates[j].Name
	})

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, candidates)
	}
	return candidates, nil
}

// MatchBatch reconciles a supplier list against the catalog in one pass:
// a single full scan feeds the pair and name indexes, then each item resolves
// by exact (brand, composition) pair first and brand name alone as fallback.
// Items with a blank brand are silently skipped. Read-only.
func (s *MatchService) MatchBatch(items []models.ExternalItem) (*models.BatchMatchResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no products provided", utils.ErrInvalidInput)
	}

	records, err := s.store.FetchAllMatchFields()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}
	ix := matching.BuildIndex(records)

	result := &models.BatchMatchResult{
		TotalSubmitted: len(items),
		Matched:        []models.MatchedProduct{},
		Unmatched:      []models.UnmatchedItem{},
	}

	for _, item := range items {
		brand := strings.TrimSpace(item.BrandName)
		if brand == "" {
			continue
		}
		generic := strings.TrimSpace(item.GenericName)

		if rec := ix.Resolve(brand, generic); rec != nil {
			result.Matched = append(result.Matched, models.MatchedProduct{
				ProductID:           rec.ProductID,
				Name:                rec.Name,
				Composition:         rec.Composition,
				RCPharamProductName: rec.RCName,
				InStock:             rec.InStock,
				MatchedBrand:        brand,
				MatchedGeneric:      generic,
			})
		} else {
			result.Unmatched = append(result.Unmatched, models.UnmatchedItem{
				BrandName:   brand,
				GenericName: generic,
			})
		}
	}

	result.MatchedCount = len(result.Matched)
	result.UnmatchedCount = len(result.Unmatched)

	log.Debug().
		Int("submitted", result.TotalSubmitted).
		Int("matched", result.MatchedCount).
		Int("unmatched", result.UnmatchedCount).
		Msg("batch match completed")

	return result, nil
}

// ApproveRequest carries an approval decision: link an existing record, or
// create a new one when no catalog id is supplied.
type ApproveRequest struct {
	ProductID     *int64 `json:"product_id"`
	RCProductName string `json:"rc_product_name"`
	BrandName     string `json:"brand_name"`
	GenericName   string `json:"generic_name"`
	Manufacturer  string `json:"manufacturer"`
	Packing       string `json:"packing"`
}

// ApproveResult reports which path an approval took.
type ApproveResult struct {
	Action    string `json:"action"` // "updated" or "created"
	ProductID int64  `json:"product_id"`
}

// Approve links an external name to a catalog record and marks it in stock.
// With a product id, the existing record is updated; a missing id is reported
// as not found, not a failure. Without one, a new record is created and
// brand_name becomes required.
func (s *MatchService) Approve(ctx context.Context, req *ApproveRequest) (*ApproveResult, error) {
	rcName := strings.TrimSpace(req.RCProductName)

	if req.ProductID != nil && *req.ProductID > 0 {
		affected, err := s.store.UpdateLink(*req.ProductID, rcName, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
		}
		if affected == 0 {
			return nil, fmt.Errorf("%w: product %d", utils.ErrNotFound, *req.ProductID)
		}

		s.invalidate(ctx)
		log.Info().Int64("product_id", *req.ProductID).Str("rc_name", rcName).Msg("match approved")
		return &ApproveResult{Action: "updated", ProductID: *req.ProductID}, nil
	}

	brand := strings.TrimSpace(req.BrandName)
	if brand == "" {
		return nil, fmt.Errorf("%w: brand_name is required to create a new product", utils.ErrInvalidInput)
	}

	id, err := s.store.InsertMatched(&repository.NewProductFields{
		Name:         brand,
		Composition:  strings.TrimSpace(req.GenericName),
		Manufacturer: strings.TrimSpace(req.Manufacturer),
		Packaging:    strings.TrimSpace(req.Packing),
		RCName:       rcName,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}

	s.invalidate(ctx)
	log.Info().Int64("product_id", id).Str("name", brand).Msg("match approved as new product")
	return &ApproveResult{Action: "created", ProductID: id}, nil
}

// Unmatch clears the approved name and stock flag for a record. Idempotent
// ensure-unmatched semantics: unknown ids succeed because the desired end
// state already holds, and repeated calls converge on the same state.
func (s *MatchService) Unmatch(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return fmt.Errorf("%w: product id required", utils.ErrInvalidInput)
	}
	if err := s.store.ClearLink(productID); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}
	s.invalidate(ctx)
	log.Info().Int64("product_id", productID).Msg("product unmatched")
	return nil
}

func (s *MatchService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
