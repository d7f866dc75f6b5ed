package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Open returns a reader over the manifest's CSV source. Remote sources
// are fetched with the default client, so pre-signed object store URLs
// work without extra credentials.
func (m Manifest) Open(ctx context.Context) (io.ReadCloser, error) {
	if m.Source.URL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.Source.URL, nil)
		if err != nil {
			return nil, fmt.Errorf("build catalog request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}

	f, err := os.Open(m.Source.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return f, nil
}
