package matching

import "sort"

// Record holds the match-relevant fields of one catalog row, preloaded in
// a single scan before batch reconciliation.
type Record struct {
	ProductID   int64
	Name        string
	Composition string
	RCName      *string
	InStock     bool
}

type pairKey struct {
	name        string
	composition string
}

// Index resolves supplier items against the catalog with tiered fallback:
// an exact (brand, composition) pair first, then brand name alone.
type Index struct {
	pairs map[pairKey]*Record
	names map[string]*Record
}

// BuildIndex constructs the pair and name lookups from a catalog preload.
// Records are ordered by ascending product id before indexing so that
// duplicate names resolve deterministically: the lowest id wins, never the
// store's incidental scan order. A record contributes pair entries for both
// its primary name and its approved name when composition is non-empty; the
// name index never overwrites an existing key.
func BuildIndex(records []Record) *Index {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	ix := &Index{
		pairs: make(map[pairKey]*Record, len(sorted)),
		names: make(map[string]*Record, len(sorted)),
	}

	for i := range sorted {
		rec := &sorted[i]
		name := NormalizeKey(rec.Name)
		comp := NormalizeKey(rec.Composition)
		rcName := ""
		if rec.RCName != nil {
			rcName = NormalizeKey(*rec.RCName)
		}

		if comp != "" {
			if name != "" {
				ix.pairs[pairKey{name, comp}] = rec
			}
			if rcName != "" {
				ix.pairs[pairKey{rcName, comp}] = rec
			}
		}

		if name != "" {
			if _, ok := ix.names[name]; !ok {
				ix.names[name] = rec
			}
		}
		if rcName != "" {
			if _, ok := ix.names[rcName]; !ok {
				ix.names[rcName] = rec
			}
		}
	}

	return ix
}

// Resolve finds the catalog record for a supplier item. The pair lookup is
// tried first when the item carries composition text; brand name alone is
// the fallback. Returns nil when neither lookup hits.
func (ix *Index) Resolve(brand, generic string) *Record {
	brandKey := NormalizeKey(brand)
	genericKey := NormalizeKey(generic)

	if genericKey != "" {
		if rec, ok := ix.pairs[pairKey{brandKey, genericKey}]; ok {
			return rec
		}
	}
	if rec, ok := ix.names[brandKey]; ok {
		return rec
	}
	return nil
}
