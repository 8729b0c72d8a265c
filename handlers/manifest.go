package handlers

import (
	"encoding/json"
	"net/http"
)

// Manifest describes the addon to clients: which resources it serves and
// which catalogs exist. The search catalogs require a search extra; the
// trending ones take none, so they render at install time.
type Manifest struct {
	ID          string            `json:"id"`
	Version     string            `json:"version"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Resources   []string          `json:"resources"`
	Types       []string          `json:"types"`
	Catalogs    []ManifestCatalog `json:"catalogs"`
	IDPrefixes  []string          `json:"idPrefixes"`
}

type ManifestCatalog struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Extra []ManifestExtra `json:"extra,omitempty"`
}

type ManifestExtra struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired"`
}

func buildManifest(version string) Manifest {
	searchExtra := []ManifestExtra{{Name: "search", IsRequired: true}}
	return Manifest{
		ID:          "com.cinesage.addon",
		Version:     version,
		Name:        "CineSage",
		Description: "AI-powered movie and series search with TMDB metadata",
		Resources:   []string{"catalog"},
		Types:       []string{"movie", "series"},
		Catalogs: []ManifestCatalog{
			{Type: "movie", ID: searchCatalogID, Name: "CineSage Search", Extra: searchExtra},
			{Type: "series", ID: searchCatalogID, Name: "CineSage Search", Extra: searchExtra},
			{Type: "movie", ID: trendingCatalogID, Name: "Trending"},
			{Type: "series", ID: trendingCatalogID, Name: "Trending"},
		},
		IDPrefixes: []string{"tt"},
	}
}

// GetManifest serves /manifest.json.
func GetManifest(version string) http.HandlerFunc {
	manifest := buildManifest(version)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(manifest)
	}
}
