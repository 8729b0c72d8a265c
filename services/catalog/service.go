// Package catalog is the top-level orchestrator: it gates a request on the
// query's content-type intent, obtains recommendations, enriches them with
// canonical metadata concurrently, and reshapes the survivors into the
// external catalog schema for the requesting platform. Every failure path
// yields an empty catalog, never an error.
package catalog

import (
	"context"
	"log"
	"net/url"
	"sort"
	"strings"

	"github.com/sourcegraph/conc"

	"cinesage/models"
	"cinesage/services/criteria"
	"cinesage/services/metadata"
)

// maxEntries caps how many recommendations are enriched and returned.
const maxEntries = 10

// descriptionLimit is the truncation applied on restricted platforms.
const descriptionLimit = 200

type recommender interface {
	GetRecommendations(ctx context.Context, query, contentType string) models.RecommendationSet
}

type metadataProvider interface {
	Lookup(ctx context.Context, title, contentType string, year int) *models.MetadataRecord
	Trending(ctx context.Context, contentType string) []models.Recommendation
}

type Service struct {
	rec  recommender
	meta metadataProvider
}

func NewService(rec recommender, meta metadataProvider) *Service {
	return &Service{rec: rec, meta: meta}
}

// HandleSearch serves a search catalog request. The extra values carry the
// free-form parameters from the request path; only "search" matters here.
func (s *Service) HandleSearch(ctx context.Context, contentType string, extra url.Values, platform Platform) models.CatalogResponse {
	query := strings.TrimSpace(extra.Get("search"))
	if query == "" {
		return emptyResponse()
	}

	// Hard gate, not a ranking signal: an unambiguous movie query must not
	// populate the series catalog, and vice versa.
	if hint := criteria.ClassifyContentType(query); hint != "ambiguous" && hint != contentType {
		log.Printf("[catalog] type gate rejected query=%q hint=%s requested=%s", query, hint, contentType)
		return emptyResponse()
	}

	recs := s.rec.GetRecommendations(ctx, query, contentType).ForType(contentType)
	return s.assemble(ctx, contentType, recs, platform)
}

// HandleTrending serves the provider-trending catalog rows shown when the
// catalog is browsed without a search query.
func (s *Service) HandleTrending(ctx context.Context, contentType string, platform Platform) models.CatalogResponse {
	recs := s.meta.Trending(ctx, contentType)
	return s.assemble(ctx, contentType, recs, platform)
}

// assemble sorts, truncates, enriches, and reshapes recommendations.
func (s *Service) assemble(ctx context.Context, contentType string, recs []models.Recommendation, platform Platform) models.CatalogResponse {
	if len(recs) == 0 {
		return emptyResponse()
	}

	recs = sortByYear(recs)
	if len(recs) > maxEntries {
		recs = recs[:maxEntries]
	}

	// Enrich concurrently; completion order is irrelevant since results are
	// recombined positionally.
	entries := make([]*models.CatalogEntry, len(recs))
	var wg conc.WaitGroup
	for i, rec := range recs {
		i, rec := i, rec
		wg.Go(func() {
			record := s.meta.Lookup(ctx, rec.Name, rec.Type, rec.Year)
			if !record.Usable() {
				return
			}
			entries[i] = buildEntry(rec, record, platform)
		})
	}
	wg.Wait()

	metas := make([]models.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			metas = append(metas, *e)
		}
	}
	return models.CatalogResponse{Metas: metas}
}

// sortByYear orders recommendations newest first. Unparsable years were
// already rejected upstream, but zero years still sort last.
func sortByYear(recs []models.Recommendation) []models.Recommendation {
	sorted := make([]models.Recommendation, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Year > sorted[j].Year
	})
	return sorted
}

// buildEntry reshapes one enriched recommendation. The entry id is always
// the metadata provider's external id — downstream consumers require the
// canonical identifier, never the internally generated slug.
func buildEntry(rec models.Recommendation, record *models.MetadataRecord, platform Platform) *models.CatalogEntry {
	name := record.CanonicalTitle
	if name == "" {
		name = rec.Name
	}
	description := record.Overview
	if description == "" {
		description = rec.Description
	}

	poster := record.PosterURL
	if platform == PlatformAndroidTV {
		description = truncate(description, descriptionLimit)
		poster = metadata.ReducedPoster(poster)
	}

	return &models.CatalogEntry{
		ID:          record.ExternalID,
		Type:        rec.Type,
		Name:        name,
		Description: description,
		Year:        rec.Year,
		Poster:      poster,
		Background:  record.BackdropURL,
		PosterShape: "poster",
		Genres:      metadata.GenreNames(record.GenreIDs),
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[:limit-3]
	// back off any split multi-byte rune
	for len(cut) > 0 && cut[len(cut)-1]&0xC0 == 0x80 {
		cut = cut[:len(cut)-1]
	}
	return strings.TrimRight(cut, " ") + "..."
}

func emptyResponse() models.CatalogResponse {
	return models.CatalogResponse{Metas: []models.CatalogEntry{}}
}
