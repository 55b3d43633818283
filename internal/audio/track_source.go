package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// maxTrackSize caps a single downloaded track.
const maxTrackSize = 64 << 20

var ErrTrackTooLarge = errors.New("track exceeds download limit")

// trackSource is a fully buffered track. Decoders need a Seeker to report the
// track length.
type trackSource struct {
	*bytes.Reader
}

func (trackSource) Close() error { return nil }

// downloadTrack fetches url into memory and returns a seekable source.
func downloadTrack(ctx context.Context, client *retryablehttp.Client, url, userAgent string, limit int64) (io.ReadSeekCloser, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "audio/*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read track: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTrackTooLarge, limit)
	}

	return trackSource{bytes.NewReader(data)}, nil
}
