package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"cinesage/models"
	catalogpkg "cinesage/services/catalog"
)

// Catalog identifiers announced in the manifest.
const (
	searchCatalogID   = "cinesage.search"
	trendingCatalogID = "cinesage.trending"
)

// catalogOrchestrator is the consumer-side view of the catalog service.
type catalogOrchestrator interface {
	HandleSearch(ctx context.Context, contentType string, extra url.Values, platform catalogpkg.Platform) models.CatalogResponse
	HandleTrending(ctx context.Context, contentType string, platform catalogpkg.Platform) models.CatalogResponse
}

var _ catalogOrchestrator = (*catalogpkg.Service)(nil)

type CatalogHandler struct {
	Service catalogOrchestrator
}

func NewCatalogHandler(s catalogOrchestrator) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

// GetCatalog serves /catalog/{type}/{id}[/{extra}].json. Errors never surface
// as transport failures: the response is always 200 with a metas list.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	contentType := vars["type"]
	catalogID := vars["id"]

	w.Header().Set("Content-Type", "application/json")

	if contentType != "movie" && contentType != "series" {
		json.NewEncoder(w).Encode(models.CatalogResponse{Metas: []models.CatalogEntry{}})
		return
	}

	extra := parseExtra(vars["extra"])
	platform := catalogpkg.DetectPlatform(r.UserAgent(), extra.Get("platform"))

	var resp models.CatalogResponse
	if catalogID == trendingCatalogID && extra.Get("search") == "" {
		resp = h.Service.HandleTrending(r.Context(), contentType, platform)
	} else {
		resp = h.Service.HandleSearch(r.Context(), contentType, extra, platform)
	}

	if resp.Metas == nil {
		resp.Metas = []models.CatalogEntry{}
	}
	json.NewEncoder(w).Encode(resp)
}

// parseExtra decodes the free-form extra path segment, which arrives as a
// URL-encoded query-style string ("search=dark%20comedy&platform=mobile").
func parseExtra(segment string) url.Values {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return url.Values{}
	}
	if unescaped, err := url.PathUnescape(segment); err == nil {
		segment = unescaped
	}
	values, err := url.ParseQuery(segment)
	if err != nil {
		log.Printf("[handlers] unparsable extra segment %q: %v", segment, err)
		return url.Values{}
	}
	return values
}
