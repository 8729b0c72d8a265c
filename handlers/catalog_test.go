package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinesage/models"
	catalogpkg "cinesage/services/catalog"
)

type fakeOrchestrator struct {
	searchResp   models.CatalogResponse
	trendingResp models.CatalogResponse

	gotType     string
	gotQuery    string
	gotPlatform catalogpkg.Platform
	trendingHit bool
}

func (f *fakeOrchestrator) HandleSearch(_ context.Context, contentType string, extra url.Values, platform catalogpkg.Platform) models.CatalogResponse {
	f.gotType = contentType
	f.gotQuery = extra.Get("search")
	f.gotPlatform = platform
	return f.searchResp
}

func (f *fakeOrchestrator) HandleTrending(_ context.Context, contentType string, platform catalogpkg.Platform) models.CatalogResponse {
	f.trendingHit = true
	f.gotType = contentType
	f.gotPlatform = platform
	return f.trendingResp
}

func newRouter(h *CatalogHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/catalog/{type}/{id}/{extra}.json", h.GetCatalog).Methods(http.MethodGet)
	r.HandleFunc("/catalog/{type}/{id}.json", h.GetCatalog).Methods(http.MethodGet)
	r.HandleFunc("/manifest.json", GetManifest("0.0.0-test")).Methods(http.MethodGet)
	return r
}

func doRequest(t *testing.T, router *mux.Router, path, userAgent string) (*httptest.ResponseRecorder, models.CatalogResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp models.CatalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestGetCatalogDecodesExtraSegment(t *testing.T) {
	fake := &fakeOrchestrator{searchResp: models.CatalogResponse{
		Metas: []models.CatalogEntry{{ID: "tt0133093", Type: "movie", Name: "The Matrix"}},
	}}
	router := newRouter(NewCatalogHandler(fake))

	rec, resp := doRequest(t, router,
		"/catalog/movie/cinesage.search/search=sci-fi%20movies%20from%20the%2080s.json",
		"Mozilla/5.0 (Windows NT 10.0)")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "movie", fake.gotType)
	assert.Equal(t, "sci-fi movies from the 80s", fake.gotQuery)
	assert.Equal(t, catalogpkg.PlatformDesktop, fake.gotPlatform)
	require.Len(t, resp.Metas, 1)
	assert.Equal(t, "tt0133093", resp.Metas[0].ID)
}

func TestGetCatalogInvalidTypeIsStillHTTP200(t *testing.T) {
	fake := &fakeOrchestrator{}
	router := newRouter(NewCatalogHandler(fake))

	rec, resp := doRequest(t, router, "/catalog/music/cinesage.search/search=songs.json", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, resp.Metas)
	assert.Empty(t, resp.Metas)
	assert.Empty(t, fake.gotType, "orchestrator must not be called for unknown types")
}

func TestGetCatalogWithoutExtraServesTrending(t *testing.T) {
	fake := &fakeOrchestrator{trendingResp: models.CatalogResponse{
		Metas: []models.CatalogEntry{{ID: "tt11280740", Type: "series", Name: "Severance"}},
	}}
	router := newRouter(NewCatalogHandler(fake))

	_, resp := doRequest(t, router, "/catalog/series/cinesage.trending.json", "")

	assert.True(t, fake.trendingHit)
	require.Len(t, resp.Metas, 1)
	assert.Equal(t, "series", fake.gotType)
}

func TestGetCatalogNilMetasSerializesAsEmptyList(t *testing.T) {
	fake := &fakeOrchestrator{} // zero-value responses have nil Metas
	router := newRouter(NewCatalogHandler(fake))

	rec, _ := doRequest(t, router, "/catalog/movie/cinesage.search/search=x.json", "")
	assert.JSONEq(t, `{"metas":[]}`, rec.Body.String())
}

func TestGetManifest(t *testing.T) {
	router := newRouter(NewCatalogHandler(&fakeOrchestrator{}))

	req := httptest.NewRequest(http.MethodGet, "/manifest.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var m Manifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "com.cinesage.addon", m.ID)
	assert.Equal(t, []string{"catalog"}, m.Resources)
	assert.Len(t, m.Catalogs, 4)
	assert.Equal(t, "search", m.Catalogs[0].Extra[0].Name)
}
