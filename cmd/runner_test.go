package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/shared"
	tu "github.com/desertthunder/ytui/internal/testing"
	"github.com/google/go-cmp/cmp"
	"github.com/urfave/cli/v3"
)

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	root := &cli.Command{Name: "ytui", Commands: r.register()}
	return root.Run(context.Background(), append([]string{"ytui"}, args...))
}

func testCatalogue() *tu.MockCatalogue {
	return &tu.MockCatalogue{
		Artists: map[string][]models.Artist{
			"radiohead": {{ChannelID: "UC1", Name: "Radiohead", Subscribers: "5M"}},
		},
		Suggestions: map[string][]models.SearchSuggestion{
			"ra": {{Runs: []models.TextRun{{Text: "ra", Bold: true}, {Text: "diohead"}}}},
		},
		Pages: map[string]*models.ArtistPage{
			"UC1": {ChannelID: "UC1", Name: "Radiohead", AlbumsBrowseID: "MPAD1", AlbumsParams: "p"},
			"UC2": {ChannelID: "UC2", Name: "Nobody"},
		},
		AlbumLists: map[string][]models.AlbumRef{
			"MPAD1": {{BrowseID: "A1", Title: "Pablo Honey", Year: "1993"}, {BrowseID: "A2", Title: "The Bends"}},
		},
		Albums: map[string]*models.Album{
			"A1": {BrowseID: "A1", Title: "Pablo Honey", Tracks: []models.Song{{VideoID: "v1", Title: "Creep", Duration: "3:58"}}},
			"A2": {BrowseID: "A2", Title: "The Bends", Year: "1995", Tracks: []models.Song{{VideoID: "v2", Title: "Just"}}},
		},
	}
}

func testConfig(t *testing.T) *shared.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := shared.DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "cache.db")
	cfg.Cache.Dir = filepath.Join(dir, "media")
	cfg.Catalogue.HeadersPath = filepath.Join(dir, "headers.txt")
	cfg.Catalogue.TokenPath = filepath.Join(dir, "token.json")
	return cfg
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalogue := testCatalogue()
			media := &tu.MockMedia{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Catalogue:  catalogue,
				Media:      media,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.catalogue != catalogue {
				t.Error("expected catalogue to be set")
			}
			if runner.mediaService() != media {
				t.Error("expected media to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected stdout to be used")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected default http client")
			}
		})

		t.Run("builds services from config when not injected", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: testConfig(t)})

			catalogue, err := runner.catalogueService(context.Background(), runner.logger)
			if err != nil {
				t.Fatalf("expected anonymous catalogue, got %v", err)
			}
			if catalogue == nil {
				t.Fatal("expected catalogue")
			}
			if runner.mediaService() == nil {
				t.Error("expected media service")
			}
		})

		t.Run("rejects a malformed headers file", func(t *testing.T) {
			cfg := testConfig(t)
			if err := os.WriteFile(cfg.Catalogue.HeadersPath, []byte("not a header\n"), 0600); err != nil {
				t.Fatal(err)
			}
			runner := NewRunner(RunnerOpts{Config: cfg})

			if _, err := runner.catalogueService(context.Background(), runner.logger); err == nil {
				t.Error("expected error for malformed headers file")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		var names []string
		for _, c := range commands {
			names = append(names, c.Name)
		}
		want := []string{"tui", "suggest", "search", "artist", "setup", "cache"}
		if diff := cmp.Diff(want, names); diff != "" {
			t.Errorf("commands mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCatalogueCommands(t *testing.T) {
	newRunner := func(t *testing.T) (*Runner, *bytes.Buffer, *tu.MockCatalogue) {
		out := &bytes.Buffer{}
		catalogue := testCatalogue()
		r := NewRunner(RunnerOpts{Config: testConfig(t), Catalogue: catalogue, Output: out, Logger: shared.NewLogger(&bytes.Buffer{})})
		return r, out, catalogue
	}

	t.Run("suggest prints plain text", func(t *testing.T) {
		r, out, _ := newRunner(t)
		if err := run(t, r, "suggest", "ra"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := out.String(); got != "radiohead\n" {
			t.Errorf("expected %q, got %q", "radiohead\n", got)
		}
	})

	t.Run("search prints artists", func(t *testing.T) {
		r, out, _ := newRunner(t)
		if err := run(t, r, "search", "radiohead"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "Radiohead (5M)") {
			t.Errorf("expected artist line, got %q", out.String())
		}
	})

	t.Run("search without results", func(t *testing.T) {
		r, out, _ := newRunner(t)
		if err := run(t, r, "search", "nobody"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "No artists found") {
			t.Errorf("expected empty result message, got %q", out.String())
		}
	})

	t.Run("search requires a query", func(t *testing.T) {
		r, _, _ := newRunner(t)
		if err := run(t, r, "search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("search as json", func(t *testing.T) {
		r, out, _ := newRunner(t)
		if err := run(t, r, "search", "--json", "--pretty=false", "radiohead"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := `[{"channel_id":"UC1","name":"Radiohead","subscribers":"5M"}]`
		if !strings.Contains(out.String(), `"channel_id":"UC1"`) {
			t.Errorf("expected %s, got %s", want, out.String())
		}
	})

	t.Run("artist exports csv", func(t *testing.T) {
		r, _, _ := newRunner(t)
		path := filepath.Join(t.TempDir(), "songs.csv")
		if err := run(t, r, "artist", "--format", "csv", "--output", path, "UC1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "v1,Creep,Radiohead,Pablo Honey,1993") {
			t.Errorf("unexpected csv:\n%s", content)
		}
	})

	t.Run("artist rejects unknown format", func(t *testing.T) {
		r, _, _ := newRunner(t)
		if err := run(t, r, "artist", "--format", "xml", "UC1"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("artistSongs keeps album order", func(t *testing.T) {
		catalogue := testCatalogue()
		page := catalogue.Pages["UC1"]

		songs, err := artistSongs(context.Background(), catalogue, page, 4)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []models.Song{
			{VideoID: "v1", Title: "Creep", Album: "Pablo Honey", Artist: "Radiohead", Year: "1993", Duration: "3:58"},
			{VideoID: "v2", Title: "Just", Album: "The Bends", Artist: "Radiohead", Year: "1995"},
		}
		if diff := cmp.Diff(want, songs); diff != "" {
			t.Errorf("songs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("artistSongs without albums", func(t *testing.T) {
		catalogue := testCatalogue()
		songs, err := artistSongs(context.Background(), catalogue, catalogue.Pages["UC2"], 1)
		if err != nil || songs != nil {
			t.Errorf("expected no songs, got %v, %v", songs, err)
		}
		if calls := catalogue.Calls(); len(calls) != 0 {
			t.Errorf("expected no catalogue calls, got %v", calls)
		}
	})

	t.Run("artistSongs fails on a missing album", func(t *testing.T) {
		catalogue := testCatalogue()
		delete(catalogue.Albums, "A2")
		if _, err := artistSongs(context.Background(), catalogue, catalogue.Pages["UC1"], 2); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	curl := `curl 'https://music.youtube.com/youtubei/v1/browse' \
  -H 'user-agent: Mozilla/5.0' \
  -H 'x-goog-authuser: 0' \
  -b 'SID=abc; SAPISID=xyz'`

	t.Run("headers from flag", func(t *testing.T) {
		cfg := testConfig(t)
		r := NewRunner(RunnerOpts{Config: cfg, Output: &bytes.Buffer{}})

		if err := run(t, r, "setup", "headers", "--curl", curl); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		headers, err := shared.LoadHeadersFile(cfg.Catalogue.HeadersPath)
		if err != nil {
			t.Fatalf("expected readable headers file, got %v", err)
		}
		if v := headers.CookieValue("SAPISID"); v != "xyz" {
			t.Errorf("expected SAPISID xyz, got %q", v)
		}
	})

	t.Run("headers from file to custom output", func(t *testing.T) {
		dir := t.TempDir()
		in := filepath.Join(dir, "curl.txt")
		out := filepath.Join(dir, "nested", "headers.txt")
		if err := os.WriteFile(in, []byte(curl), 0600); err != nil {
			t.Fatal(err)
		}
		r := NewRunner(RunnerOpts{Config: testConfig(t), Output: &bytes.Buffer{}})

		if err := run(t, r, "setup", "headers", "--curl-file", in, "--output", out); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, out)
	})

	t.Run("headers flag validation", func(t *testing.T) {
		r := NewRunner(RunnerOpts{Config: testConfig(t), Output: &bytes.Buffer{}})

		if err := run(t, r, "setup", "headers"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := run(t, r, "setup", "headers", "--curl", curl, "--curl-file", "x"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("headers without a session cookie", func(t *testing.T) {
		r := NewRunner(RunnerOpts{Config: testConfig(t), Output: &bytes.Buffer{}})
		err := run(t, r, "setup", "headers", "--curl", `curl 'x' -H 'user-agent: Mozilla/5.0'`)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		r := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		if err := run(t, r, "setup", "config", "--config", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("expected written config to load, got %v", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		cfg := testConfig(t)
		r := NewRunner(RunnerOpts{Config: cfg, Output: &bytes.Buffer{}})

		if err := run(t, r, "setup", "database"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, cfg.Database.Path)
	})

	t.Run("oauth requires client credentials", func(t *testing.T) {
		r := NewRunner(RunnerOpts{Config: testConfig(t), Output: &bytes.Buffer{}})
		if err := run(t, r, "setup", "oauth"); err == nil {
			t.Error("expected error without client credentials")
		}
	})
}

func TestCacheCommands(t *testing.T) {
	seed := func(t *testing.T, cfg *shared.Config) string {
		t.Helper()
		r := NewRunner(RunnerOpts{Config: cfg})
		repo, db, err := r.openCache()
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()

		path := filepath.Join(t.TempDir(), "v1.m4a")
		if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
			t.Fatal(err)
		}
		song := models.Song{VideoID: "v1", Title: "Creep", Artist: "Radiohead"}
		if err := repo.Put(models.NewCachedSong(song, path, 5)); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("list", func(t *testing.T) {
		cfg := testConfig(t)
		seed(t, cfg)
		out := &bytes.Buffer{}
		r := NewRunner(RunnerOpts{Config: cfg, Output: out})

		if err := run(t, r, "cache", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "Creep") || !strings.Contains(out.String(), "1 songs, 5 B") {
			t.Errorf("unexpected listing:\n%s", out.String())
		}
	})

	t.Run("list filtered by artist", func(t *testing.T) {
		cfg := testConfig(t)
		seed(t, cfg)
		out := &bytes.Buffer{}
		r := NewRunner(RunnerOpts{Config: cfg, Output: out})

		if err := run(t, r, "cache", "list", "--artist", "Nobody"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "0 songs") {
			t.Errorf("expected empty listing, got:\n%s", out.String())
		}
	})

	t.Run("prune keeps recent songs", func(t *testing.T) {
		cfg := testConfig(t)
		path := seed(t, cfg)
		out := &bytes.Buffer{}
		r := NewRunner(RunnerOpts{Config: cfg, Output: out})

		if err := run(t, r, "cache", "prune", "--days", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "Removed 0 songs") {
			t.Errorf("unexpected output %q", out.String())
		}
		tu.AssertFileExists(t, path)
	})
}
