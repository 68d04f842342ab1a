package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytui/internal/repositories"
	"github.com/desertthunder/ytui/internal/services"
	"github.com/desertthunder/ytui/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalogue  services.Catalogue
	media      services.MediaFetcher
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Catalogue and Media are built from Config when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalogue  services.Catalogue
	Media      services.MediaFetcher
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalogue:  opts.Catalogue,
		media:      opts.Media,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		tuiCommand, suggestCommand, searchCommand, artistCommand, setupCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// catalogueService returns the injected catalogue or builds one from the configuration.
//
// A headers file takes precedence over an OAuth token. Without either, requests are anonymous.
func (r *Runner) catalogueService(ctx context.Context, logger *log.Logger) (services.Catalogue, error) {
	if r.catalogue != nil {
		return r.catalogue, nil
	}

	cfg := r.config.Catalogue
	svc := services.NewYTMusicService(cfg.BaseURL, cfg.RequestsPerSecond, cfg.Burst)

	headers, err := shared.LoadHeadersFile(cfg.HeadersPath)
	switch {
	case err == nil:
		if err := svc.WithHeaders(headers); err != nil {
			return nil, err
		}
		logger.Debug("using browser headers", "path", cfg.HeadersPath)
		r.catalogue = svc
		return svc, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to load headers file: %w", err)
	}

	tok, err := services.LoadToken(cfg.TokenPath)
	if err != nil {
		logger.Debug("no credentials found, using anonymous requests")
		r.catalogue = svc
		return svc, nil
	}

	conf, err := services.NewOAuthConfig(r.config.Credentials.OAuth)
	if err != nil {
		return nil, err
	}
	src := services.NewFileTokenSource(ctx, conf, tok, cfg.TokenPath)
	src.OnSave(func(_ *oauth2.Token, err error) {
		if err != nil {
			logger.Warn("failed to save refreshed token", "error", err)
		} else {
			logger.Debug("refreshed token saved", "path", cfg.TokenPath)
		}
	})
	svc.WithHTTPClient(services.OAuthClient(ctx, src), true)
	logger.Debug("using oauth token", "path", cfg.TokenPath)

	r.catalogue = svc
	return svc, nil
}

func (r *Runner) mediaService() services.MediaFetcher {
	if r.media == nil {
		r.media = services.NewMediaService(r.config.Catalogue.MediaURL, r.httpClient)
	}
	return r.media
}

func (r *Runner) openCache() (*repositories.SongCacheRepository, *sql.DB, error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open media cache: %w", err)
	}
	return repositories.NewSongCacheRepository(db), db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
