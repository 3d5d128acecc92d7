package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-retryablehttp"
)

// maxImageBytes caps how much remote image data is read; NFT metadata URLs
// point at arbitrary hosts.
const maxImageBytes = 20 << 20

const (
	thumbnailSize    = 800
	thumbnailQuality = 85
)

// ImageFetcher downloads a remote preview image and re-encodes it as a
// bounded JPEG thumbnail suitable for a Telegram photo upload.
type ImageFetcher struct {
	http *retryablehttp.Client
}

// NewImageFetcher constructs an ImageFetcher with bounded retries.
func NewImageFetcher() *ImageFetcher {
	c := retryablehttp.NewClient()
	c.RetryMax = 1
	c.RetryWaitMin = 500 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = 20 * time.Second
	c.Logger = nil
	return &ImageFetcher{http: c}
}

// Thumbnail fetches url and returns a JPEG fitting inside 800x800, aspect
// ratio preserved. Any failure along the way (transport, unsupported
// format, encode) is returned to the caller, who falls back to text-only.
func (f *ImageFetcher) Thumbnail(ctx context.Context, url string) (io.Reader, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return &buf, nil
}
