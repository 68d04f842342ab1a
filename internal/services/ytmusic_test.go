package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/shared"
	"github.com/google/go-cmp/cmp"
)

type requestLog struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func (l *requestLog) last() map[string]any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bodies[len(l.bodies)-1]
}

// fixtureServer serves testdata files keyed by "<endpoint>" or "browse:<browseId>".
func fixtureServer(t *testing.T, routes map[string]string) (*httptest.Server, *requestLog) {
	t.Helper()
	reqs := &requestLog{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		reqs.mu.Lock()
		reqs.bodies = append(reqs.bodies, body)
		reqs.mu.Unlock()

		key := strings.TrimPrefix(r.URL.Path, "/")
		if key == "browse" {
			id, _ := body["browseId"].(string)
			key += ":" + id
		}
		file, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"message":"Requested entity was not found."}}`))
			return
		}
		data, err := os.ReadFile(filepath.Join("testdata", file))
		if err != nil {
			t.Errorf("missing fixture %s: %v", file, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv, reqs
}

func TestYTMusicService(t *testing.T) {
	ctx := context.Background()
	srv, reqs := fixtureServer(t, map[string]string{
		"search":                       "search_artists.json",
		"music/get_search_suggestions": "suggestions.json",
		"browse:UCabc":                 "artist.json",
		"browse:UCnone":                "artist_no_albums.json",
		"browse:MPADUCabc":             "artist_albums.json",
		"browse:MPREb_ok":              "album.json",
	})
	svc := NewYTMusicService(srv.URL, 1000, 10)

	t.Run("NewYTMusicService defaults", func(t *testing.T) {
		if s := NewYTMusicService("", 0, 0); s.baseURL != defaultYTMusicBaseURL {
			t.Errorf("expected baseURL %s, got %s", defaultYTMusicBaseURL, s.baseURL)
		}
		if svc.Name() != "YouTube Music" {
			t.Errorf("unexpected name %q", svc.Name())
		}
	})

	t.Run("SearchArtists", func(t *testing.T) {
		got, err := svc.SearchArtists(ctx, "radiohead")
		if err != nil {
			t.Fatalf("SearchArtists() error = %v", err)
		}
		want := []models.Artist{
			{ChannelID: "UCabc", Name: "Radiohead", Subscribers: "7.1M"},
			{ChannelID: "UCdef", Name: "Radiohead Tribute"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("SearchArtists() mismatch (-want +got):\n%s", diff)
		}

		last := reqs.last()
		if last["query"] != "radiohead" || last["params"] != artistsFilter {
			t.Errorf("unexpected search body %v", last)
		}
		if _, ok := last["context"]; !ok {
			t.Error("request body should carry the client context")
		}
	})

	t.Run("GetSearchSuggestions", func(t *testing.T) {
		got, err := svc.GetSearchSuggestions(ctx, "radio")
		if err != nil {
			t.Fatalf("GetSearchSuggestions() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 suggestions, got %d", len(got))
		}
		if got[0].Text() != "radiohead" || !got[0].Runs[0].Bold {
			t.Errorf("unexpected first suggestion %+v", got[0])
		}
	})

	t.Run("GetArtist", func(t *testing.T) {
		page, err := svc.GetArtist(ctx, "UCabc")
		if err != nil {
			t.Fatalf("GetArtist() error = %v", err)
		}
		want := &models.ArtistPage{ChannelID: "UCabc", Name: "Radiohead", AlbumsBrowseID: "MPADUCabc", AlbumsParams: "ggMIegYIARoCAQI%3D"}
		if diff := cmp.Diff(want, page); diff != "" {
			t.Errorf("GetArtist() mismatch (-want +got):\n%s", diff)
		}

		page, err = svc.GetArtist(ctx, "UCnone")
		if err != nil {
			t.Fatalf("GetArtist() error = %v", err)
		}
		if page.HasAlbums() {
			t.Error("artist without an albums shelf should report no albums")
		}
	})

	t.Run("GetArtistAlbums", func(t *testing.T) {
		got, err := svc.GetArtistAlbums(ctx, "MPADUCabc", "ggMIegYIARoCAQI%3D")
		if err != nil {
			t.Fatalf("GetArtistAlbums() error = %v", err)
		}
		want := []models.AlbumRef{
			{BrowseID: "MPREb_ok", Title: "OK Computer", Year: "1997"},
			{BrowseID: "MPREb_kida", Title: "Kid A", Year: "2000"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("GetArtistAlbums() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("GetAlbum", func(t *testing.T) {
		got, err := svc.GetAlbum(ctx, "MPREb_ok")
		if err != nil {
			t.Fatalf("GetAlbum() error = %v", err)
		}
		want := &models.Album{
			BrowseID: "MPREb_ok",
			Title:    "OK Computer",
			Year:     "1997",
			Tracks: []models.Song{
				{VideoID: "vid1", Title: "Airbag", Album: "OK Computer", Year: "1997", Duration: "4:44", TrackNo: 1},
				{VideoID: "vid3", Title: "Subterranean Homesick Alien", Album: "OK Computer", Year: "1997", Duration: "4:27", TrackNo: 3},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("GetAlbum() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("API error", func(t *testing.T) {
		_, err := svc.GetAlbum(ctx, "MPREb_missing")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "Requested entity was not found.") {
			t.Errorf("error should carry the API message, got %v", err)
		}
	})

	t.Run("unexpected shape", func(t *testing.T) {
		// the artist fixture has no album header
		_, err := svc.GetAlbum(ctx, "UCabc")
		if !errors.Is(err, shared.ErrUnexpectedAPI) {
			t.Errorf("expected ErrUnexpectedAPI, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := svc.SearchArtists(cctx, "radiohead"); err == nil {
			t.Error("expected an error for a cancelled context")
		}
	})
}

func TestYTMusicServiceAuth(t *testing.T) {
	var mu sync.Mutex
	var gotAuth, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		gotCookie = r.Header.Get("Cookie")
		mu.Unlock()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	seen := func() (string, string) {
		mu.Lock()
		defer mu.Unlock()
		return gotAuth, gotCookie
	}

	svc := NewYTMusicService(srv.URL, 1000, 10)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	t.Run("unauthenticated", func(t *testing.T) {
		if svc.Authenticated() {
			t.Fatal("new service should not be authenticated")
		}
		if _, err := svc.SearchArtists(context.Background(), "x"); err != nil {
			t.Fatalf("SearchArtists() error = %v", err)
		}
		if auth, _ := seen(); auth != "" {
			t.Errorf("expected no Authorization header, got %q", auth)
		}
	})

	t.Run("rejects headers without SAPISID", func(t *testing.T) {
		h, _ := shared.ParseCurlCommand([]byte(`curl -b 'HSID=1'`))
		if err := svc.WithHeaders(h); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("browser headers", func(t *testing.T) {
		h, _ := shared.ParseCurlCommand([]byte(`curl -b 'SAPISID=secret; HSID=1'`))
		if err := svc.WithHeaders(h); err != nil {
			t.Fatalf("WithHeaders() error = %v", err)
		}
		if _, err := svc.SearchArtists(context.Background(), "x"); err != nil {
			t.Fatalf("SearchArtists() error = %v", err)
		}
		gotAuth, gotCookie := seen()
		want := sapisidHash("secret", time.Unix(1700000000, 0))
		if gotAuth != want {
			t.Errorf("Authorization = %q, want %q", gotAuth, want)
		}
		if !strings.HasPrefix(gotAuth, "SAPISIDHASH 1700000000_") {
			t.Errorf("unexpected hash format %q", gotAuth)
		}
		if gotCookie != "SAPISID=secret; HSID=1" {
			t.Errorf("Cookie = %q", gotCookie)
		}
	})
}
