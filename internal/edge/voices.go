package edge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Catalog fetches the voice list from the Edge speech service. The list is
// fetched fresh on every call; the service owns the data and this gateway
// keeps no copy.
type Catalog struct {
	endpoint   string
	httpClient *http.Client
}

// NewCatalog creates a catalog accessor against the public voice list
// endpoint. Pass a non-empty endpoint to point it elsewhere (tests).
func NewCatalog(endpoint string) *Catalog {
	if endpoint == "" {
		endpoint = voiceListEndpoint
	}
	return &Catalog{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ListVoices returns every voice the service currently offers.
func (c *Catalog) ListVoices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create voice list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch voice list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("voice list returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var voices []Voice
	if err := json.NewDecoder(resp.Body).Decode(&voices); err != nil {
		return nil, fmt.Errorf("decode voice list: %w", err)
	}
	return voices, nil
}

// FilterByLocale keeps voices whose locale starts with the given prefix,
// case-insensitive, so "ja" matches "ja-JP". An empty prefix keeps all
// voices. No match yields an empty slice, not an error.
func FilterByLocale(voices []Voice, locale string) []Voice {
	if locale == "" {
		return voices
	}
	prefix := strings.ToLower(locale)
	filtered := make([]Voice, 0, len(voices))
	for _, v := range voices {
		if strings.HasPrefix(strings.ToLower(v.Locale), prefix) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
