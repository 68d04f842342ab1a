package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytui/internal/services"
	"github.com/desertthunder/ytui/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the given path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Configuration written to %s\n", path)
}

// SetupDatabase initializes the media cache database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	_, db, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return nil
}

// SetupHeaders parses a browser cURL command and saves its authentication headers.
func (r *Runner) SetupHeaders(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	outputPath := cmd.String("output")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidInput)
	}

	var headers *shared.AuthHeaders
	var err error
	if curlFile != "" {
		headers, err = shared.ParseCurlFile(curlFile)
	} else {
		headers, err = shared.ParseCurlCommand([]byte(curlCmd))
	}
	if err != nil {
		return fmt.Errorf("failed to parse cURL command: %w", err)
	}
	if headers.CookieValue("SAPISID") == "" {
		return fmt.Errorf("%w: the request has no SAPISID cookie; copy it while signed in", shared.ErrMissingCredentials)
	}

	if outputPath == "" {
		outputPath = r.config.Catalogue.HeadersPath
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := shared.WriteHeadersFile(outputPath, headers); err != nil {
		return err
	}

	r.logger.Info("headers saved", "path", outputPath, "count", len(headers.Header))
	r.writePlain("✓ YouTube Music headers saved to %s\n", outputPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set catalogue.headers_path = \"%s\" in config.toml if you used --output\n", outputPath)
	r.writePlain("2. Run 'ytui search \"an artist\"' to test authentication\n")
	return nil
}

// SetupOAuth runs the device authorization flow and saves the token.
func (r *Runner) SetupOAuth(ctx context.Context, cmd *cli.Command) error {
	conf, err := services.NewOAuthConfig(r.config.Credentials.OAuth)
	if err != nil {
		return err
	}

	tok, err := services.DeviceLogin(ctx, conf, func(url, code string) {
		r.writePlainHeader("YouTube Music sign-in")
		r.writePlain("Open %s\nand enter the code: %s\n", url, code)
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Debug("could not open browser", "error", err)
		}
	})
	if err != nil {
		return err
	}

	path := r.config.Catalogue.TokenPath
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := services.SaveToken(path, tok); err != nil {
		return err
	}

	r.logger.Info("token saved", "path", path)
	return r.writePlain("✓ Signed in; token saved to %s\n", path)
}
