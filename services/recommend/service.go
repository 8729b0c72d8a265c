// Package recommend turns a free-text query into typed movie/series
// recommendation records by prompting a generative-text model and parsing its
// delimiter-line reply. Results are cached per (query, type); every failure
// path degrades to an empty list for the requested type.
package recommend

import (
	"context"
	"log"
	"strings"
	"time"

	"cinesage/internal/cache"
	"cinesage/models"
	"cinesage/services/criteria"
)

type Service struct {
	gemini *geminiClient
	cache  *cache.Cache[models.RecommendationSet]
}

// NewService builds the generator. ttl controls how long a generated list is
// reused for an identical (query, type) pair.
func NewService(apiKey, model string, ttl time.Duration) *Service {
	return newServiceWithClient(newGeminiClient(apiKey, model, nil), ttl)
}

func newServiceWithClient(client *geminiClient, ttl time.Duration) *Service {
	return &Service{
		gemini: client,
		cache:  cache.New[models.RecommendationSet](ttl),
	}
}

// GetRecommendations returns recommendations for the requested content type.
// The content type is supplied by the caller, already resolved upstream; only
// date and genre criteria are derived here. Never fails: transport or
// provider errors yield an empty bucket and are not cached.
func (s *Service) GetRecommendations(ctx context.Context, query, contentType string) models.RecommendationSet {
	key := strings.ToLower(strings.TrimSpace(query)) + "|" + contentType
	set, err := s.cache.GetOrCompute(key, func() (models.RecommendationSet, error) {
		return s.generate(ctx, query, contentType)
	})
	if err != nil {
		log.Printf("[recommend] generation failed type=%s query=%q: %v", contentType, query, err)
		return emptySet(contentType)
	}
	return set
}

func (s *Service) generate(ctx context.Context, query, contentType string) (models.RecommendationSet, error) {
	dateRange := criteria.ExtractDateRange(query)
	genres := criteria.ExtractGenreCriteria(query)

	text, err := s.gemini.generate(ctx, buildPrompt(query, contentType, dateRange, genres))
	if err != nil {
		return models.RecommendationSet{}, err
	}

	recs := parseRecommendations(text, contentType)

	// Enforce the derived date range even when the model ignored the rule.
	if dateRange != nil {
		kept := recs[:0]
		for _, rec := range recs {
			if dateRange.Contains(rec.Year) {
				kept = append(kept, rec)
			}
		}
		recs = kept
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}

	log.Printf("[recommend] generated %d %s recommendations for %q", len(recs), contentType, query)
	return bucket(recs, contentType), nil
}

// bucket places recs under the requested type only; the other bucket stays
// nil, distinguishing "not requested" from "requested, zero results".
func bucket(recs []models.Recommendation, contentType string) models.RecommendationSet {
	if contentType == "series" {
		return models.RecommendationSet{Series: recs}
	}
	return models.RecommendationSet{Movies: recs}
}

func emptySet(contentType string) models.RecommendationSet {
	return bucket([]models.Recommendation{}, contentType)
}
