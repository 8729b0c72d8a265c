package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinesage/models"
)

type fakeRecommender struct {
	set    models.RecommendationSet
	called bool
}

func (f *fakeRecommender) GetRecommendations(_ context.Context, query, contentType string) models.RecommendationSet {
	f.called = true
	return f.set
}

type fakeMetadata struct {
	records  map[string]*models.MetadataRecord
	trending []models.Recommendation
}

func (f *fakeMetadata) Lookup(_ context.Context, title, contentType string, year int) *models.MetadataRecord {
	return f.records[title]
}

func (f *fakeMetadata) Trending(_ context.Context, contentType string) []models.Recommendation {
	return f.trending
}

func movieRec(name string, year int) models.Recommendation {
	return models.Recommendation{
		ID:          models.RecommendationID("movie", name),
		Name:        name,
		Year:        year,
		Type:        "movie",
		Description: "fallback description",
	}
}

func usableRecord(imdbID string) *models.MetadataRecord {
	return &models.MetadataRecord{
		PosterURL:   "https://image.tmdb.org/t/p/original/poster.jpg",
		BackdropURL: "https://image.tmdb.org/t/p/original/backdrop.jpg",
		Overview:    "A proper overview.",
		ExternalID:  imdbID,
		GenreIDs:    []int{28},
	}
}

func searchExtra(query string) url.Values {
	return url.Values{"search": []string{query}}
}

func TestHandleSearchGateRejectsMismatchedType(t *testing.T) {
	rec := &fakeRecommender{}
	svc := NewService(rec, &fakeMetadata{})

	resp := svc.HandleSearch(context.Background(), "series", searchExtra("best action movies"), PlatformDesktop)

	assert.NotNil(t, resp.Metas)
	assert.Empty(t, resp.Metas)
	assert.False(t, rec.called, "gated request must not reach the generator")
}

func TestHandleSearchEmptyQueryReturnsEmpty(t *testing.T) {
	rec := &fakeRecommender{}
	svc := NewService(rec, &fakeMetadata{})

	resp := svc.HandleSearch(context.Background(), "movie", url.Values{}, PlatformDesktop)
	assert.Empty(t, resp.Metas)
	assert.False(t, rec.called)
}

func TestHandleSearchSortsTruncatesAndEnriches(t *testing.T) {
	var recs []models.Recommendation
	meta := &fakeMetadata{records: map[string]*models.MetadataRecord{}}
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("Film %d", i)
		recs = append(recs, movieRec(name, 1990+i))
		meta.records[name] = usableRecord(fmt.Sprintf("tt%07d", i))
	}
	rec := &fakeRecommender{set: models.RecommendationSet{Movies: recs}}
	svc := NewService(rec, meta)

	resp := svc.HandleSearch(context.Background(), "movie", searchExtra("films about anything"), PlatformDesktop)

	require.Len(t, resp.Metas, 10, "capped at 10 entries")
	assert.Equal(t, 2001, resp.Metas[0].Year, "sorted newest first")
	assert.Equal(t, 1992, resp.Metas[9].Year, "oldest two dropped by the cap")
	for _, m := range resp.Metas {
		assert.True(t, strings.HasPrefix(m.ID, "tt"), "id must be the external identifier")
		assert.NotEmpty(t, m.Poster)
		assert.Equal(t, "poster", m.PosterShape)
		assert.Equal(t, []string{"Action"}, m.Genres)
	}
}

func TestHandleSearchDropsFailedEnrichment(t *testing.T) {
	meta := &fakeMetadata{records: map[string]*models.MetadataRecord{
		"Good":     usableRecord("tt0000001"),
		"NoPoster": {ExternalID: "tt0000002"},
		// "Missing" has no record at all
	}}
	rec := &fakeRecommender{set: models.RecommendationSet{Movies: []models.Recommendation{
		movieRec("Good", 2000),
		movieRec("NoPoster", 2001),
		movieRec("Missing", 2002),
	}}}
	svc := NewService(rec, meta)

	resp := svc.HandleSearch(context.Background(), "movie", searchExtra("good movies"), PlatformDesktop)

	require.Len(t, resp.Metas, 1)
	assert.Equal(t, "tt0000001", resp.Metas[0].ID)
}

func TestAndroidTVGetsReducedAssets(t *testing.T) {
	long := strings.Repeat("An overview sentence. ", 20) // well over 200 chars
	record := usableRecord("tt0000003")
	record.Overview = long
	meta := &fakeMetadata{records: map[string]*models.MetadataRecord{"Epic": record}}
	rec := &fakeRecommender{set: models.RecommendationSet{Movies: []models.Recommendation{movieRec("Epic", 2010)}}}
	svc := NewService(rec, meta)

	resp := svc.HandleSearch(context.Background(), "movie", searchExtra("epic movies"), PlatformAndroidTV)
	require.Len(t, resp.Metas, 1)
	assert.LessOrEqual(t, len(resp.Metas[0].Description), 200)
	assert.True(t, strings.HasSuffix(resp.Metas[0].Description, "..."))
	assert.Equal(t, "https://image.tmdb.org/t/p/w342/poster.jpg", resp.Metas[0].Poster)

	// Other platforms keep the full assets.
	resp = svc.HandleSearch(context.Background(), "movie", searchExtra("epic movies"), PlatformDesktop)
	require.Len(t, resp.Metas, 1)
	assert.Equal(t, long, resp.Metas[0].Description)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/poster.jpg", resp.Metas[0].Poster)
}

func TestHandleTrendingServesRows(t *testing.T) {
	meta := &fakeMetadata{
		records: map[string]*models.MetadataRecord{
			"Severance": usableRecord("tt11280740"),
		},
		trending: []models.Recommendation{
			{ID: "series-severance", Name: "Severance", Year: 2022, Type: "series"},
		},
	}
	svc := NewService(&fakeRecommender{}, meta)

	resp := svc.HandleTrending(context.Background(), "series", PlatformDesktop)
	require.Len(t, resp.Metas, 1)
	assert.Equal(t, "tt11280740", resp.Metas[0].ID)
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		ua, hint string
		want     Platform
	}{
		{"Mozilla/5.0 (Linux; Android 9; SHIELD Android TV)", "", PlatformAndroidTV},
		{"Mozilla/5.0 (Linux; Android 13; Pixel 7) Mobile", "", PlatformMobile},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64)", "", PlatformDesktop},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)", "", PlatformDesktop},
		{"curl/8.5.0", "", PlatformUnknown},
		{"", "", PlatformUnknown},
		// An explicit hint wins over the user agent.
		{"Mozilla/5.0 (Windows NT 10.0)", "android-tv", PlatformAndroidTV},
		{"", "nonsense", PlatformUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectPlatform(tt.ua, tt.hint), "ua=%q hint=%q", tt.ua, tt.hint)
	}
}

func TestTruncateKeepsShortStrings(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 200))
	got := truncate(strings.Repeat("é", 150), 200)
	assert.LessOrEqual(t, len(got), 200)
	assert.True(t, strings.HasSuffix(got, "..."))
}
