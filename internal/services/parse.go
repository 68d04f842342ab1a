package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/shared"
	"github.com/tidwall/gjson"
)

const (
	searchSections = "contents.tabbedSearchResultsRenderer.tabs.0.tabRenderer.content.sectionListRenderer.contents"
	browseSections = "contents.singleColumnBrowseResultsRenderer.tabs.0.tabRenderer.content.sectionListRenderer.contents"
	listItem       = "musicResponsiveListItemRenderer"
)

// flexText joins the runs of the i-th flex column of a list item.
func flexText(item gjson.Result, i int) string {
	return runsText(item.Get(fmt.Sprintf("flexColumns.%d.musicResponsiveListItemFlexColumnRenderer.text.runs", i)))
}

func runsText(runs gjson.Result) string {
	var b strings.Builder
	runs.ForEach(func(_, run gjson.Result) bool {
		b.WriteString(run.Get("text").String())
		return true
	})
	return b.String()
}

// yearOf returns the last run that looks like a year.
func yearOf(runs gjson.Result) string {
	var year string
	runs.ForEach(func(_, run gjson.Result) bool {
		t := strings.TrimSpace(run.Get("text").String())
		if len(t) == 4 {
			if _, err := strconv.Atoi(t); err == nil {
				year = t
			}
		}
		return true
	})
	return year
}

func parseArtistSearch(res gjson.Result) []models.Artist {
	var artists []models.Artist
	res.Get(searchSections).ForEach(func(_, section gjson.Result) bool {
		section.Get("musicShelfRenderer.contents").ForEach(func(_, entry gjson.Result) bool {
			item := entry.Get(listItem)
			id := item.Get("navigationEndpoint.browseEndpoint.browseId").String()
			if id == "" {
				return true
			}

			a := models.Artist{ChannelID: id, Name: flexText(item, 0)}
			// "Artist • 1.2M subscribers"
			if subtitle := flexText(item, 1); subtitle != "" {
				parts := strings.Split(subtitle, " • ")
				if last := parts[len(parts)-1]; strings.Contains(last, "subscriber") {
					a.Subscribers = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(last, "subscribers"), "subscriber"))
				}
			}
			artists = append(artists, a)
			return true
		})
		return true
	})
	return artists
}

func parseSearchSuggestions(res gjson.Result) []models.SearchSuggestion {
	var out []models.SearchSuggestion
	res.Get("contents.0.searchSuggestionsSectionRenderer.contents").ForEach(func(_, entry gjson.Result) bool {
		runs := entry.Get("searchSuggestionRenderer.suggestion.runs")
		if !runs.Exists() {
			return true
		}
		var s models.SearchSuggestion
		runs.ForEach(func(_, run gjson.Result) bool {
			s.Runs = append(s.Runs, models.TextRun{Text: run.Get("text").String(), Bold: run.Get("bold").Bool()})
			return true
		})
		out = append(out, s)
		return true
	})
	return out
}

func parseArtistPage(channelID string, res gjson.Result) (*models.ArtistPage, error) {
	name := res.Get("header.musicImmersiveHeaderRenderer.title.runs.0.text")
	if !name.Exists() {
		name = res.Get("header.musicVisualHeaderRenderer.title.runs.0.text")
	}
	if !name.Exists() {
		return nil, fmt.Errorf("%w: artist %s has no header", shared.ErrUnexpectedAPI, channelID)
	}

	page := &models.ArtistPage{ChannelID: channelID, Name: name.String()}
	res.Get(browseSections).ForEach(func(_, section gjson.Result) bool {
		title := section.Get("musicCarouselShelfRenderer.header.musicCarouselShelfBasicHeaderRenderer.title.runs.0")
		if title.Get("text").String() != "Albums" {
			return true
		}
		page.AlbumsBrowseID = title.Get("navigationEndpoint.browseEndpoint.browseId").String()
		page.AlbumsParams = title.Get("navigationEndpoint.browseEndpoint.params").String()
		return false
	})
	return page, nil
}

func parseArtistAlbums(res gjson.Result) []models.AlbumRef {
	var albums []models.AlbumRef
	res.Get(browseSections + ".0.gridRenderer.items").ForEach(func(_, entry gjson.Result) bool {
		item := entry.Get("musicTwoRowItemRenderer")
		id := item.Get("navigationEndpoint.browseEndpoint.browseId").String()
		if id == "" {
			return true
		}
		albums = append(albums, models.AlbumRef{
			BrowseID: id,
			Title:    runsText(item.Get("title.runs")),
			Year:     yearOf(item.Get("subtitle.runs")),
		})
		return true
	})
	return albums
}

func parseAlbum(browseID string, res gjson.Result) (*models.Album, error) {
	header := res.Get("header.musicDetailHeaderRenderer")
	if !header.Exists() {
		return nil, fmt.Errorf("%w: album %s has no header", shared.ErrUnexpectedAPI, browseID)
	}

	album := &models.Album{
		BrowseID: browseID,
		Title:    runsText(header.Get("title.runs")),
		Year:     yearOf(header.Get("subtitle.runs")),
	}

	res.Get(browseSections + ".0.musicShelfRenderer.contents").ForEach(func(i, entry gjson.Result) bool {
		item := entry.Get(listItem)
		videoID := item.Get("playlistItemData.videoId").String()
		if videoID == "" {
			// unavailable track
			return true
		}
		trackNo := int(item.Get("index.runs.0.text").Int())
		if trackNo == 0 {
			trackNo = int(i.Int()) + 1
		}
		album.Tracks = append(album.Tracks, models.Song{
			VideoID:  videoID,
			Title:    flexText(item, 0),
			Album:    album.Title,
			Year:     album.Year,
			Duration: item.Get("fixedColumns.0.musicResponsiveListItemFixedColumnRenderer.text.runs.0.text").String(),
			TrackNo:  trackNo,
		})
		return true
	})
	return album, nil
}
