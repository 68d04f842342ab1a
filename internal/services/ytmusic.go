// YouTube Music InnerTube [Catalogue] implementation
package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	defaultYTMusicBaseURL = "https://music.youtube.com/youtubei/v1"
	ytMusicOrigin         = "https://music.youtube.com"
	clientName            = "WEB_REMIX"
	clientVersion         = "1.20250101.01.00"

	// artistsFilter restricts search results to the artists shelf.
	artistsFilter = "EgWKAQIgAWoMEAMQBBAJEA4QChAF"
)

// YTMusicService implements [Catalogue] against the InnerTube API.
type YTMusicService struct {
	baseURL    string
	httpClient *http.Client
	headers    *shared.AuthHeaders
	oauth      bool
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewYTMusicService creates a client allowing rps requests per second with the given burst.
func NewYTMusicService(baseURL string, rps float64, burst int) *YTMusicService {
	if baseURL == "" {
		baseURL = defaultYTMusicBaseURL
	}
	if rps <= 0 {
		rps = 4
	}
	if burst <= 0 {
		burst = 1
	}

	return &YTMusicService{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		now:        time.Now,
	}
}

// Name returns the service name.
func (y *YTMusicService) Name() string {
	return "YouTube Music"
}

// WithHeaders authenticates requests as the browser session the headers were captured from.
func (y *YTMusicService) WithHeaders(h *shared.AuthHeaders) error {
	if h == nil || h.CookieValue("SAPISID") == "" {
		return fmt.Errorf("%w: headers have no SAPISID cookie", shared.ErrMissingCredentials)
	}
	y.headers = h
	y.oauth = false
	return nil
}

// WithHTTPClient replaces the transport, e.g. with an [oauth2] client.
func (y *YTMusicService) WithHTTPClient(c *http.Client, oauth bool) {
	y.httpClient = c
	y.oauth = oauth
	if oauth {
		y.headers = nil
	}
}

// Authenticated reports whether requests carry credentials.
func (y *YTMusicService) Authenticated() bool {
	return y.headers != nil || y.oauth
}

// sapisidHash is the Authorization value a browser computes for a logged-in session.
func sapisidHash(sapisid string, now time.Time) string {
	ts := strconv.FormatInt(now.Unix(), 10)
	sum := sha1.Sum([]byte(ts + " " + sapisid + " " + ytMusicOrigin))
	return "SAPISIDHASH " + ts + "_" + hex.EncodeToString(sum[:])
}

// post sends an InnerTube request and returns the parsed response body.
func (y *YTMusicService) post(ctx context.Context, endpoint string, body map[string]any) (gjson.Result, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return gjson.Result{}, err
	}

	body["context"] = map[string]any{
		"client": map[string]any{"clientName": clientName, "clientVersion": clientVersion, "hl": "en"},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, y.baseURL+"/"+endpoint+"?prettyPrint=false", bytes.NewReader(payload))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	if y.headers != nil {
		for k, vals := range y.headers.Header {
			for _, v := range vals {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("Authorization", sapisidHash(y.headers.CookieValue("SAPISID"), y.now()))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", ytMusicOrigin)
	req.Header.Set("X-Goog-Request-Time", strconv.FormatInt(y.now().Unix(), 10))

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg := gjson.GetBytes(data, "error.message"); msg.Exists() {
			return gjson.Result{}, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, msg.String())
		}
		return gjson.Result{}, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON from %s", shared.ErrUnexpectedAPI, endpoint)
	}
	return gjson.ParseBytes(data), nil
}

// SearchArtists searches the artists shelf.
func (y *YTMusicService) SearchArtists(ctx context.Context, query string) ([]models.Artist, error) {
	res, err := y.post(ctx, "search", map[string]any{"query": query, "params": artistsFilter})
	if err != nil {
		return nil, err
	}
	return parseArtistSearch(res), nil
}

// GetSearchSuggestions returns completions for query.
func (y *YTMusicService) GetSearchSuggestions(ctx context.Context, query string) ([]models.SearchSuggestion, error) {
	res, err := y.post(ctx, "music/get_search_suggestions", map[string]any{"input": query})
	if err != nil {
		return nil, err
	}
	return parseSearchSuggestions(res), nil
}

// GetArtist browses an artist channel.
func (y *YTMusicService) GetArtist(ctx context.Context, channelID string) (*models.ArtistPage, error) {
	res, err := y.post(ctx, "browse", map[string]any{"browseId": channelID})
	if err != nil {
		return nil, err
	}
	return parseArtistPage(channelID, res)
}

// GetArtistAlbums browses the album grid linked from an artist page.
func (y *YTMusicService) GetArtistAlbums(ctx context.Context, browseID, params string) ([]models.AlbumRef, error) {
	res, err := y.post(ctx, "browse", map[string]any{"browseId": browseID, "params": params})
	if err != nil {
		return nil, err
	}
	return parseArtistAlbums(res), nil
}

// GetAlbum browses an album.
func (y *YTMusicService) GetAlbum(ctx context.Context, browseID string) (*models.Album, error) {
	res, err := y.post(ctx, "browse", map[string]any{"browseId": browseID})
	if err != nil {
		return nil, err
	}
	return parseAlbum(browseID, res)
}
