// Package resolve converts free-text dimension references from media-plan
// rows into stable dimension ids, learning aliases as it goes.
//
// Two resolution paths exist. Exact-match kinds (classification, display
// type, client) never run scoring, so visually different strings are never
// merged. Fuzzy kinds (exhibitor, media, campaign, target) score unknown
// text against every canonical name and either adopt the best match at or
// above the threshold or create a new canonical entity.
package resolve

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/planhouse/planhouse/internal/db/schema"
	"github.com/planhouse/planhouse/internal/db/service"
	"github.com/planhouse/planhouse/internal/match"
)

// FuzzyThreshold is the minimum similarity score (0-100) for adopting an
// existing canonical name instead of creating a new one. Fixed by design,
// not configurable per call.
const FuzzyThreshold = 90

// dimensionCache is the in-memory projection of one dimension's persisted
// state: canonical names as stored, plus case-folded alias spellings. For
// exact-match kinds the alias index is seeded from the folded canonical
// names themselves.
type dimensionCache struct {
	names   map[string]int64
	aliases map[string]int64
}

// Resolver holds the per-kind caches of one orchestrator run. It is the only
// in-memory view of the dimension tables during that run; every hit and
// every creation flows through it.
type Resolver struct {
	store  *service.DimensionStore
	logger *slog.Logger
	caches map[string]*dimensionCache
}

// New creates a Resolver with empty caches. Call Load before resolving.
func New(store *service.DimensionStore, logger *slog.Logger) *Resolver {
	r := &Resolver{
		store:  store,
		logger: logger,
		caches: make(map[string]*dimensionCache),
	}
	for _, kind := range schema.Kinds() {
		r.caches[kind.Name] = &dimensionCache{
			names:   make(map[string]int64),
			aliases: make(map[string]int64),
		}
	}
	return r
}

// Load seeds every cache from storage. A kind that fails to load keeps an
// empty cache and resolution falls through to creation; only the warning is
// recorded.
func (r *Resolver) Load() {
	for _, kind := range schema.Kinds() {
		cache := r.caches[kind.Name]

		recs, err := r.store.List(kind)
		if err != nil {
			r.logger.Warn("dimension cache load failed, starting empty",
				"kind", kind.Name, "error", err)
			continue
		}
		for _, rec := range recs {
			name := strings.TrimSpace(rec.Name)
			cache.names[name] = rec.ID
			if !kind.HasAlias() {
				cache.aliases[fold(name)] = rec.ID
			}
		}

		if kind.HasAlias() {
			aliases, err := r.store.ListAliases(kind)
			if err != nil {
				r.logger.Warn("alias cache load failed, starting empty",
					"kind", kind.Name, "error", err)
				continue
			}
			for _, a := range aliases {
				cache.aliases[fold(a.Alias)] = a.DimensionID
			}
		}

		r.logger.Debug("dimension cache loaded",
			"kind", kind.Name,
			"names", len(cache.names),
			"aliases", len(cache.aliases))
	}
}

// ResolveExact is the get-or-create path for exact-match kinds. Blank input
// yields a nil id with no row created. The cache is only updated after the
// creation has been persisted.
func (r *Resolver) ResolveExact(kind schema.Kind, text string) (*int64, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil, nil
	}
	cache := r.caches[kind.Name]
	folded := fold(clean)

	if id, ok := cache.aliases[folded]; ok {
		return &id, nil
	}

	id, err := r.store.Create(kind, clean, nil)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", kind.Name, err)
	}
	r.logger.Info("new dimension entity", "kind", kind.Name, "name", clean, "id", id)

	cache.names[clean] = id
	cache.aliases[folded] = id
	return &id, nil
}

// ResolveFuzzy is the approximate get-or-create path. A previously learned
// spelling short-circuits without re-scoring, so an identical text always
// resolves the same way after its first occurrence. link carries the
// optional classification id used only when a new media row is created.
func (r *Resolver) ResolveFuzzy(kind schema.Kind, text string, link *int64) (*int64, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil, nil
	}
	cache := r.caches[kind.Name]
	folded := fold(clean)

	if id, ok := cache.aliases[folded]; ok {
		return &id, nil
	}

	if name, id, score, ok := bestCandidate(cache.names, folded); ok && score >= FuzzyThreshold {
		if err := r.store.SaveAlias(kind, clean, id); err != nil {
			return nil, fmt.Errorf("resolve %s: %w", kind.Name, err)
		}
		r.logger.Info("alias learned",
			"kind", kind.Name, "text", clean, "canonical", name, "score", score, "id", id)
		cache.aliases[folded] = id
		return &id, nil
	}

	// Below threshold or empty cache: the text is a new canonical entity.
	id, err := r.store.Create(kind, clean, link)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", kind.Name, err)
	}
	if err := r.store.SaveAlias(kind, clean, id); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", kind.Name, err)
	}
	r.logger.Info("new dimension entity", "kind", kind.Name, "name", clean, "id", id)

	cache.names[clean] = id
	cache.aliases[folded] = id
	return &id, nil
}

// bestCandidate scores the input against every canonical name and returns
// the single best one. Ties on score go to the lexicographically smallest
// canonical name so repeated runs pick the same winner regardless of map
// iteration order.
func bestCandidate(names map[string]int64, folded string) (string, int64, int, bool) {
	var (
		bestName  string
		bestID    int64
		bestScore = -1
	)
	for name, id := range names {
		score := match.TokenSortRatio(folded, name)
		if score > bestScore || (score == bestScore && name < bestName) {
			bestName, bestID, bestScore = name, id, score
		}
	}
	return bestName, bestID, bestScore, bestScore >= 0
}

func fold(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
