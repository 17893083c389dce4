package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medingen/catalog_api/internal/matching"
	"github.com/medingen/catalog_api/internal/models"
	"github.com/medingen/catalog_api/internal/repository"
	"github.com/medingen/catalog_api/internal/utils"
)

type fakeMatchStore struct {
	candidates []repository.CandidateRow
	records    []matching.Record

	scanErr error

	updated      map[int64]string
	updateResult int64
	cleared      []int64
	inserted     []*repository.NewProductFields
	nextInsertID int64
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{updated: map[int64]string{}, nextInsertID: 100}
}

func (f *fakeMatchStore) FetchCandidateSuperset(tokens []string, limit int) ([]repository.CandidateRow, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.candidates, nil
}

func (f *fakeMatchStore) FetchAllMatchFields() ([]matching.Record, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.records, nil
}

func (f *fakeMatchStore) UpdateLink(productID int64, rcName string, inStock bool) (int64, error) {
	if f.updateResult == 0 {
		return 0, nil
	}
	f.updated[productID] = rcName
	return f.updateResult, nil
}

func (f *fakeMatchStore) InsertMatched(fields *repository.NewProductFields) (int64, error) {
	f.inserted = append(f.inserted, fields)
	return f.nextInsertID, nil
}

func (f *fakeMatchStore) ClearLink(productID int64) error {
	f.cleared = append(f.cleared, productID)
	return nil
}

func strPtr(s string) *string { return &s }
func i64Ptr(i int64) *int64   { return &i }

func TestFindCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("blank search term is rejected", func(t *testing.T) {
		svc := NewMatchService(newFakeMatchStore(), nil, 200)
		_, err := svc.FindCandidates(ctx, "   ")
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("scores candidates by distinct token overlap and sorts best first", func(t *testing.T) {
		store := newFakeMatchStore()
		store.candidates = []repository.CandidateRow{
			{ProductID: 2, Name: "Paracip", Composition: "Paracetamol 500mg"},
			{ProductID: 1, Name: "Dolo 650", Composition: "Paracetamol"},
		}
		svc := NewMatchService(store, nil, 200)

		got, err := svc.FindCandidates(ctx, "paracetamol 650")
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, int64(1), got[0].ProductID)
		assert.Equal(t, 2, got[0].MatchScore)
		assert.Equal(t, int64(2), got[1].ProductID)
		assert.Equal(t, 1, got[1].MatchScore)
		assert.Equal(t, "Match", got[0].MatchType)
	})

	t.Run("score ties break by name ascending", func(t *testing.T) {
		store := newFakeMatchStore()
		store.candidates = []repository.CandidateRow{
			{ProductID: 1, Name: "Zincovit", Composition: "Zinc"},
			{ProductID: 2, Name: "Azinc", Composition: "Zinc"},
		}
		svc := NewMatchService(store, nil, 200)

		got, err := svc.FindCandidates(ctx, "zinc")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Azinc", got[0].Name)
		assert.Equal(t, "Zincovit", got[1].Name)
	})

	t.Run("approved name counts toward the haystack", func(t *testing.T) {
		store := newFakeMatchStore()
		store.candidates = []repository.CandidateRow{
			{ProductID: 5, Name: "House Brand", RCName: strPtr("Crocin"), Composition: ""},
		}
		svc := NewMatchService(store, nil, 200)

		got, err := svc.FindCandidates(ctx, "crocin")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].MatchScore)
	})

	t.Run("store failure surfaces as unavailable", func(t *testing.T) {
		store := newFakeMatchStore()
		store.scanErr = errors.New("connection refused")
		svc := NewMatchService(store, nil, 200)

		_, err := svc.FindCandidates(ctx, "anything")
		assert.ErrorIs(t, err, utils.ErrStoreUnavailable)
	})
}

func TestMatchBatch(t *testing.T) {
	t.Run("empty batch is rejected", func(t *testing.T) {
		svc := NewMatchService(newFakeMatchStore(), nil, 200)
		_, err := svc.MatchBatch(nil)
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("pair match resolves regardless of case", func(t *testing.T) {
		store := newFakeMatchStore()
		store.records = []matching.Record{
			{ProductID: 1, Name: "ABC Tab", Composition: "X"},
		}
		svc := NewMatchService(store, nil, 200)

		result, err := svc.MatchBatch([]models.ExternalItem{
			{BrandName: "abc tab", GenericName: "x"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.MatchedCount)
		assert.Equal(t, 0, result.UnmatchedCount)
		assert.Equal(t, int64(1), result.Matched[0].ProductID)
		assert.Equal(t, "abc tab", result.Matched[0].MatchedBrand)
	})

	t.Run("composition mismatch falls back to name-only", func(t *testing.T) {
		store := newFakeMatchStore()
		store.records = []matching.Record{
			{ProductID: 1, Name: "ABC Tab", Composition: "Y"},
		}
		svc := NewMatchService(store, nil, 200)

		result, err := svc.MatchBatch([]models.ExternalItem{
			{BrandName: "ABC TAB", GenericName: "Z"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.MatchedCount)
	})

	t.Run("unmatched items are returned as submitted pairs", func(t *testing.T) {
		store := newFakeMatchStore()
		store.records = []matching.Record{
			{ProductID: 1, Name: "Known", Composition: "K"},
		}
		svc := NewMatchService(store, nil, 200)

		result, err := svc.MatchBatch([]models.ExternalItem{
			{BrandName: "Unknown", GenericName: "U"},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.MatchedCount)
		assert.Equal(t, 1, result.UnmatchedCount)
		assert.Equal(t, "Unknown", result.Unmatched[0].BrandName)
		assert.Equal(t, "U", result.Unmatched[0].GenericName)
	})

	t.Run("blank brands are silently skipped", func(t *testing.T) {
		store := newFakeMatchStore()
		store.records = []matching.Record{
			{ProductID: 1, Name: "Known", Composition: "K"},
		}
		svc := NewMatchService(store, nil, 200)

		result, err := svc.MatchBatch([]models.ExternalItem{
			{BrandName: "   "},
			{BrandName: "known", GenericName: "k"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalSubmitted)
		assert.Equal(t, 1, result.MatchedCount)
		assert.Equal(t, 0, result.UnmatchedCount)
	})

	t.Run("duplicate catalog names resolve to the lowest id every time", func(t *testing.T) {
		store := newFakeMatchStore()
		store.records = []matching.Record{
			{ProductID: 9, Name: "Generic X", Composition: "B"},
			{ProductID: 4, Name: "Generic X", Composition: "A"},
		}
		svc := NewMatchService(store, nil, 200)

		for i := 0; i < 3; i++ {
			result, err := svc.MatchBatch([]models.ExternalItem{{BrandName: "generic x"}})
			require.NoError(t, err)
			require.Equal(t, 1, result.MatchedCount)
			assert.Equal(t, int64(4), result.Matched[0].ProductID)
		}
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("existing id updates the link", func(t *testing.T) {
		store := newFakeMatchStore()
		store.updateResult = 1
		svc := NewMatchService(store, nil, 200)

		result, err := svc.Approve(ctx, &ApproveRequest{
			ProductID:     i64Ptr(5),
			RCProductName: " Crocin Advance ",
		})
		require.NoError(t, err)
		assert.Equal(t, "updated", result.Action)
		assert.Equal(t, int64(5), result.ProductID)
		assert.Equal(t, "Crocin Advance", store.updated[5])
	})

	t.Run("missing id is a reportable not-found, not a failure", func(t *testing.T) {
		store := newFakeMatchStore()
		store.updateResult = 0
		svc := NewMatchService(store, nil, 200)

		_, err := svc.Approve(ctx, &ApproveRequest{ProductID: i64Ptr(5), RCProductName: "X"})
		assert.ErrorIs(t, err, utils.ErrNotFound)
		assert.NotErrorIs(t, err, utils.ErrStoreUnavailable)
	})

	t.Run("no id creates a new linked record", func(t *testing.T) {
		store := newFakeMatchStore()
		svc := NewMatchService(store, nil, 200)

		result, err := svc.Approve(ctx, &ApproveRequest{
			RCProductName: "Crocin",
			BrandName:     "New Brand",
			GenericName:   "Paracetamol",
			Manufacturer:  "GSK",
			Packing:       "10x10",
		})
		require.NoError(t, err)
		assert.Equal(t, "created", result.Action)
		assert.Equal(t, int64(100), result.ProductID)

		require.Len(t, store.inserted, 1)
		assert.Equal(t, "New Brand", store.inserted[0].Name)
		assert.Equal(t, "Paracetamol", store.inserted[0].Composition)
		assert.Equal(t, "Crocin", store.inserted[0].RCName)
	})

	t.Run("creating without brand name is rejected", func(t *testing.T) {
		svc := NewMatchService(newFakeMatchStore(), nil, 200)
		_, err := svc.Approve(ctx, &ApproveRequest{RCProductName: "X", BrandName: "  "})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})
}

func TestUnmatch(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the link and succeeds", func(t *testing.T) {
		store := newFakeMatchStore()
		svc := NewMatchService(store, nil, 200)

		require.NoError(t, svc.Unmatch(ctx, 7))
		assert.Equal(t, []int64{7}, store.cleared)
	})

	t.Run("repeat calls converge on the same end state", func(t *testing.T) {
		store := newFakeMatchStore()
		svc := NewMatchService(store, nil, 200)

		require.NoError(t, svc.Unmatch(ctx, 7))
		require.NoError(t, svc.Unmatch(ctx, 7))
		assert.Equal(t, []int64{7, 7}, store.cleared)
	})

	t.Run("missing product id is rejected", func(t *testing.T) {
		svc := NewMatchService(newFakeMatchStore(), nil, 200)
		assert.ErrorIs(t, svc.Unmatch(ctx, 0), utils.ErrInvalidInput)
	})
}

type fakeCache struct {
	entries     map[string][]models.MatchCandidate
	invalidated int
}

func (f *fakeCache) Get(_ context.Context, term string) []models.MatchCandidate {
	return f.entries[term]
}

func (f *fakeCache) Set(_ context.Context, term string, candidates []models.MatchCandidate) {
	f.entries[term] = candidates
}

func (f *fakeCache) Invalidate(_ context.Context) {
	f.invalidated++
	f.entries = map[string][]models.MatchCandidate{}
}

func TestCandidateCaching(t *testing.T) {
	ctx := context.Background()

	t.Run("second lookup is served from cache", func(t *testing.T) {
		store := newFakeMatchStore()
		store.candidates = []repository.CandidateRow{{ProductID: 1, Name: "Dolo 650", Composition: "Paracetamol"}}
		cache := &fakeCache{entries: map[string][]models.MatchCandidate{}}
		svc := NewMatchService(store, cache, 200)

		first, err := svc.FindCandidates(ctx, "Dolo 650")
		require.NoError(t, err)

		store.scanErr = errors.New("store must not be hit")
		second, err := svc.FindCandidates(ctx, "dolo  650")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("writes invalidate cached candidates", func(t *testing.T) {
		store := newFakeMatchStore()
		store.updateResult = 1
		cache := &fakeCache{entries: map[string][]models.MatchCandidate{}}
		svc := NewMatchService(store, cache, 200)

		_, err := svc.Approve(ctx, &ApproveRequest{ProductID: i64Ptr(1), RCProductName: "X"})
		require.NoError(t, err)
		require.NoError(t, svc.Unmatch(ctx, 1))
		assert.Equal(t, 2, cache.invalidated)
	})
}
