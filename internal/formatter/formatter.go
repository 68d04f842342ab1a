// package formatter renders song lists and media cache listings as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/shared"
)

// Format selects an output encoding.
type Format string

const (
	Text     Format = "text"
	CSV      Format = "csv"
	Markdown Format = "markdown"
)

// ParseFormat accepts "text", "csv", "markdown" or "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return Text, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, s)
	}
}

// SongsToCSV converts songs to CSV with columns: VideoID, Title, Artist, Album, Year, Duration
func SongsToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"VideoID", "Title", "Artist", "Album", "Year", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range songs {
		record := []string{s.VideoID, s.Title, s.Artist, s.Album, s.Year, s.Duration}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SongsToMarkdown renders songs under title, with one section per album in first-seen order
func SongsToMarkdown(title string, songs []models.Song) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", len(songs)))

	album, n := "\x00", 0
	for _, s := range songs {
		if s.Album != album {
			album, n = s.Album, 0
			heading := album
			if heading == "" {
				heading = "Singles"
			}
			if s.Year != "" {
				heading = fmt.Sprintf("%s (%s)", heading, s.Year)
			}
			buf.WriteString(fmt.Sprintf("\n## %s\n\n", heading))
		}
		n++
		if s.Duration != "" {
			buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", n, s.Title, s.Duration))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s\n", n, s.Title))
		}
	}

	return buf.Bytes()
}

// SongsToText renders songs as a numbered plain text list
func SongsToText(title string, songs []models.Song) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))

	for i, s := range songs {
		line := fmt.Sprintf("%d. %s - %s", i+1, s.Artist, s.Title)
		if s.Album != "" {
			line += fmt.Sprintf(" (%s)", s.Album)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}

// Songs renders songs in format f.
func Songs(f Format, title string, songs []models.Song) ([]byte, error) {
	switch f {
	case CSV:
		return SongsToCSV(songs)
	case Markdown:
		return SongsToMarkdown(title, songs), nil
	default:
		return SongsToText(title, songs), nil
	}
}

// CacheToCSV converts cache entries to CSV with columns: VideoID, Title, Artist, Path, Size, LastPlayed
func CacheToCSV(entries []*models.CachedSong) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"VideoID", "Title", "Artist", "Path", "Size", "LastPlayed"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.VideoID(),
			e.Song().Title,
			e.Song().Artist,
			e.Path(),
			fmt.Sprint(e.Size()),
			e.UpdatedAt().UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// CacheToText renders cache entries one per line followed by the total size
func CacheToText(entries []*models.CachedSong) []byte {
	var buf bytes.Buffer
	var total int64
	for _, e := range entries {
		total += e.Size()
		buf.WriteString(fmt.Sprintf("%-12s %-40s %10s  %s\n",
			e.VideoID(), truncate(e.Song().Title, 40), FormatBytes(e.Size()), e.UpdatedAt().Format("2006-01-02")))
	}
	buf.WriteString(fmt.Sprintf("\n%d songs, %s\n", len(entries), FormatBytes(total)))
	return buf.Bytes()
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// WriteExport writes data to path, creating the file with mode 0644.
func WriteExport(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
