// Media service for downloading audio from the local stream proxy
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/desertthunder/ytui/internal/shared"
)

const (
	defaultMediaURL = "http://localhost:8080"
	chunkSize       = 32 * 1024
)

// MediaService fetches audio streams from the proxy, which resolves a video id to its best audio format.
type MediaService struct {
	baseURL    string
	httpClient *http.Client
}

// NewMediaService creates a media client for the proxy at baseURL.
func NewMediaService(baseURL string, client *http.Client) *MediaService {
	if baseURL == "" {
		baseURL = defaultMediaURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &MediaService{baseURL: baseURL, httpClient: client}
}

// FetchAudio reads the whole stream for videoID via GET /api/stream/{id}, calling progress after each chunk.
func (m *MediaService) FetchAudio(ctx context.Context, videoID string, progress ProgressFunc) ([]byte, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: empty video id", shared.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/api/stream/"+url.PathEscape(videoID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: video %s", shared.ErrNotFound, videoID)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	total := resp.ContentLength
	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}

	chunk := make([]byte, chunkSize)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if progress != nil {
				progress(int64(buf.Len()), total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading stream: %w", shared.ErrAPIRequest, err)
		}
	}

	if total > 0 && int64(buf.Len()) != total {
		return nil, fmt.Errorf("%w: short read %d of %d bytes", shared.ErrAPIRequest, buf.Len(), total)
	}
	return buf.Bytes(), nil
}
