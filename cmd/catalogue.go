package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytui/internal/formatter"
	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/services"
	"github.com/desertthunder/ytui/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.StringArg(name)
	if v == "" {
		return "", fmt.Errorf("%w: <%s>", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// Suggest prints search suggestions for a partial query.
func (r *Runner) Suggest(ctx context.Context, cmd *cli.Command) error {
	query, err := requireArg(cmd, "query")
	if err != nil {
		return err
	}
	catalogue, err := r.catalogueService(ctx, r.logger)
	if err != nil {
		return err
	}

	r.logger.Debug("fetching suggestions", "query", query)
	suggestions, err := catalogue.GetSearchSuggestions(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(suggestions, cmd.Bool("pretty"))
	}
	for _, s := range suggestions {
		r.writePlain("%s\n", s.Text())
	}
	return nil
}

// Search prints the artists matching a query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query, err := requireArg(cmd, "query")
	if err != nil {
		return err
	}
	catalogue, err := r.catalogueService(ctx, r.logger)
	if err != nil {
		return err
	}

	r.logger.Info("searching artists", "query", query)
	artists, err := catalogue.SearchArtists(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, cmd.Bool("pretty"))
	}
	if len(artists) == 0 {
		return r.writePlain("No artists found for %q\n", query)
	}
	for _, a := range artists {
		if a.Subscribers != "" {
			r.writePlain("%-28s %s (%s)\n", a.ChannelID, a.Name, a.Subscribers)
		} else {
			r.writePlain("%-28s %s\n", a.ChannelID, a.Name)
		}
	}
	return nil
}

// artistSongs fetches every album of the artist in listing order.
func artistSongs(ctx context.Context, catalogue services.Catalogue, page *models.ArtistPage, concurrency int) ([]models.Song, error) {
	if !page.HasAlbums() {
		return nil, nil
	}
	refs, err := catalogue.GetArtistAlbums(ctx, page.AlbumsBrowseID, page.AlbumsParams)
	if err != nil {
		return nil, err
	}

	albums := make([]*models.Album, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, ref := range refs {
		g.Go(func() error {
			album, err := catalogue.GetAlbum(gctx, ref.BrowseID)
			if err != nil {
				return fmt.Errorf("album %s: %w", ref.BrowseID, err)
			}
			if album.Year == "" {
				album.Year = ref.Year
			}
			albums[i] = album
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var songs []models.Song
	for _, album := range albums {
		for _, s := range album.Tracks {
			s.Artist, s.Year = page.Name, album.Year
			if s.Album == "" {
				s.Album = album.Title
			}
			songs = append(songs, s)
		}
	}
	return songs, nil
}

// Artist prints every album track of an artist.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	channelID, err := requireArg(cmd, "channel-id")
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	catalogue, err := r.catalogueService(ctx, r.logger)
	if err != nil {
		return err
	}

	page, err := catalogue.GetArtist(ctx, channelID)
	if err != nil {
		return err
	}
	r.logger.Info("fetching albums", "artist", page.Name)

	songs, err := artistSongs(ctx, catalogue, page, r.config.Catalogue.AlbumConcurrency)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	data, err := formatter.Songs(format, page.Name, songs)
	if err != nil {
		return err
	}
	if out := cmd.String("output"); out != "" {
		if err := formatter.WriteExport(out, data); err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %d songs to %s\n", len(songs), out)
	}
	_, err = r.output.Write(data)
	return err
}
