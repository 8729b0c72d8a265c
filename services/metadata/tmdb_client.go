package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	tmdbBaseURL  = "https://api.themoviedb.org/3"
	tmdbImageURL = "https://image.tmdb.org/t/p"
)

// Minimal TMDB v3 client (search, external ids and trending endpoints we need)

type tmdbClient struct {
	apiKey string
	httpc  *http.Client

	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration

	// retry settings apply to trending only; search and details are fire-once
	retryAttempts uint
	retryDelay    time.Duration
}

func newTMDBClient(apiKey string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &tmdbClient{
		apiKey:        apiKey,
		httpc:         httpc,
		minInterval:   20 * time.Millisecond,
		retryAttempts: 3,
		retryDelay:    500 * time.Millisecond,
	}
}

// statusError distinguishes client-class failures, which are never retried,
// from transient upstream ones.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("tmdb request failed: status %d", e.code)
}

func (e *statusError) transient() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

type tmdbSearchResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"` // tv results use "name"
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
}

// displayTitle returns the canonical title regardless of media type.
func (r tmdbSearchResult) displayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

func (r tmdbSearchResult) releaseDate() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

type tmdbSearchResponse struct {
	Results []tmdbSearchResult `json:"results"`
}

// apiPath maps our content types onto TMDB path segments.
func apiPath(contentType string) string {
	if contentType == "series" {
		return "tv"
	}
	return "movie"
}

func (c *tmdbClient) throttle() {
	c.throttleMu.Lock()
	since := time.Since(c.lastRequest)
	if since < c.minInterval {
		time.Sleep(c.minInterval - since)
	}
	c.lastRequest = time.Now()
	c.throttleMu.Unlock()
}

func (c *tmdbClient) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	if c.apiKey == "" {
		return errors.New("tmdb api key not configured")
	}
	c.throttle()

	query.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tmdbBaseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create tmdb request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}

// searchTitle returns the ranked search results for a title; only index 0 is
// used by callers, per the single-best-match policy.
func (c *tmdbClient) searchTitle(ctx context.Context, title, contentType string, year int) ([]tmdbSearchResult, error) {
	q := url.Values{}
	q.Set("query", title)
	q.Set("include_adult", "false")
	if year > 0 {
		if contentType == "series" {
			q.Set("first_air_date_year", strconv.Itoa(year))
		} else {
			q.Set("year", strconv.Itoa(year))
		}
	}

	var resp tmdbSearchResponse
	if err := c.getJSON(ctx, "/search/"+apiPath(contentType), q, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// fetchExternalID returns the IMDB id for a TMDB title, or "" when TMDB has
// no mapping.
func (c *tmdbClient) fetchExternalID(ctx context.Context, contentType string, id int64) (string, error) {
	var resp struct {
		IMDBID string `json:"imdb_id"`
	}
	endpoint := fmt.Sprintf("/%s/%d/external_ids", apiPath(contentType), id)
	if err := c.getJSON(ctx, endpoint, url.Values{}, &resp); err != nil {
		return "", err
	}
	return resp.IMDBID, nil
}

// trending returns this week's trending titles. Unlike the core lookup calls
// it retries transient failures with jittered exponential backoff; 4xx
// responses are returned immediately.
func (c *tmdbClient) trending(ctx context.Context, contentType string) ([]tmdbSearchResult, error) {
	var results []tmdbSearchResult
	err := retry.Do(
		func() error {
			var resp tmdbSearchResponse
			if err := c.getJSON(ctx, "/trending/"+apiPath(contentType)+"/week", url.Values{}, &resp); err != nil {
				return err
			}
			results = resp.Results
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.Delay(c.retryDelay),
		retry.MaxJitter(c.retryDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.RetryIf(func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.transient()
			}
			return true
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// imageURL builds a full asset URL from a TMDB path fragment.
func imageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return tmdbImageURL + "/" + size + path
}

// ReducedPoster swaps a full-resolution poster URL for the lower-resolution
// variant served to restricted platforms.
func ReducedPoster(posterURL string) string {
	return replaceSize(posterURL, "w342")
}

func replaceSize(assetURL, size string) string {
	const original = tmdbImageURL + "/original/"
	if len(assetURL) > len(original) && assetURL[:len(original)] == original {
		return tmdbImageURL + "/" + size + "/" + assetURL[len(original):]
	}
	return assetURL
}
