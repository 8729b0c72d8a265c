// Package metadata resolves titles against TMDB: a single best-match lookup
// that normalizes the result into a MetadataRecord, plus the trending feed
// used for the addon's non-search catalog rows. Lookups are cached per
// (title, type, year), misses included, so known-absent titles are not
// re-queried inside the TTL window.
package metadata

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"cinesage/internal/cache"
	"cinesage/models"
)

type Service struct {
	tmdb       *tmdbClient
	cache      *cache.Cache[*models.MetadataRecord]
	trendCache *cache.Cache[[]models.Recommendation]
}

// NewService builds the lookup service. ttl bounds both the per-title cache
// and the trending cache; cacheSize caps the per-title cache (0 = unbounded).
func NewService(tmdbAPIKey string, ttl time.Duration, cacheSize int) *Service {
	return newServiceWithClient(newTMDBClient(tmdbAPIKey, nil), ttl, cacheSize)
}

func newServiceWithClient(client *tmdbClient, ttl time.Duration, cacheSize int) *Service {
	lookupCache := cache.New[*models.MetadataRecord](ttl)
	if cacheSize > 0 {
		lookupCache = cache.NewBounded[*models.MetadataRecord](ttl, cacheSize)
	}
	return &Service{
		tmdb:       client,
		cache:      lookupCache,
		trendCache: cache.New[[]models.Recommendation](ttl),
	}
}

// Lookup resolves one title to a normalized metadata record, or nil when the
// provider has no match or the request fails. Never returns an error; nil
// results are cached with the same TTL as hits. Callers must treat a record
// without a poster or external id as a miss (see MetadataRecord.Usable).
func (s *Service) Lookup(ctx context.Context, title, contentType string, year int) *models.MetadataRecord {
	key := fmt.Sprintf("%s|%s|%d", strings.ToLower(strings.TrimSpace(title)), contentType, year)
	record, _ := s.cache.GetOrCompute(key, func() (*models.MetadataRecord, error) {
		return s.fetch(ctx, title, contentType, year), nil
	})
	return record
}

func (s *Service) fetch(ctx context.Context, title, contentType string, year int) *models.MetadataRecord {
	results, err := s.tmdb.searchTitle(ctx, title, contentType, year)
	if err != nil {
		log.Printf("[metadata] search failed title=%q type=%s year=%d: %v", title, contentType, year, err)
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	// Best single match only; no disambiguation among candidates.
	best := results[0]
	record := &models.MetadataRecord{
		PosterURL:      imageURL(best.PosterPath, "original"),
		BackdropURL:    imageURL(best.BackdropPath, "original"),
		Rating:         best.VoteAverage,
		GenreIDs:       best.GenreIDs,
		Overview:       best.Overview,
		CanonicalTitle: best.displayTitle(),
		ReleaseDate:    best.releaseDate(),
	}

	// Search results never carry the cross-catalog id, so a second
	// details call is needed. On failure the record is cached without the
	// id; Usable() keeps it out of any catalog until the entry expires.
	imdbID, err := s.tmdb.fetchExternalID(ctx, contentType, best.ID)
	if err != nil {
		log.Printf("[metadata] external id fetch failed title=%q tmdb=%d: %v", title, best.ID, err)
	}
	record.ExternalID = imdbID

	return record
}

// Trending returns recommendation records sourced from the provider's weekly
// trending feed, for catalog rows served without a search query. Failures
// degrade to an empty list.
func (s *Service) Trending(ctx context.Context, contentType string) []models.Recommendation {
	recs, err := s.trendCache.GetOrCompute("trending|"+contentType, func() ([]models.Recommendation, error) {
		results, err := s.tmdb.trending(ctx, contentType)
		if err != nil {
			return nil, err
		}
		recs := make([]models.Recommendation, 0, len(results))
		for _, r := range results {
			name := r.displayTitle()
			if name == "" {
				continue
			}
			recs = append(recs, models.Recommendation{
				ID:          models.RecommendationID(contentType, name),
				Name:        name,
				Year:        releaseYear(r.releaseDate()),
				Type:        contentType,
				Description: r.Overview,
				Relevance:   "trending this week",
			})
		}
		return recs, nil
	})
	if err != nil {
		log.Printf("[metadata] trending fetch failed type=%s: %v", contentType, err)
		return []models.Recommendation{}
	}
	return recs
}

// releaseYear parses the year out of a YYYY-MM-DD release date, 0 if absent.
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}
