package permsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrymomot/permkit/pkg/permissions"
)

// HTTPConfig holds the configuration for a remote HTTP document endpoint.
type HTTPConfig struct {
	URL     string        `env:"PERMISSIONS_HTTP_URL,required"`            // URL serving the JSON configuration document.
	Timeout time.Duration `env:"PERMISSIONS_HTTP_TIMEOUT" envDefault:"10s"` // Timeout for a single fetch.
}

// HTTP fetches a JSON configuration document from a remote endpoint.
// The endpoint must answer 200 with the document in the response body.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP creates an HTTP-backed configuration source.
func NewHTTP(cfg HTTPConfig) *HTTP {
	return &HTTP{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Load implements permissions.Source.
func (s *HTTP) Load(ctx context.Context) (permissions.Config, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return permissions.Config{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return permissions.Config{}, fmt.Errorf("fetching %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return permissions.Config{}, errors.Join(ErrDocumentNotFound,
			fmt.Errorf("%s answered 404", s.url))
	}
	if resp.StatusCode != http.StatusOK {
		return permissions.Config{}, errors.Join(ErrUnexpectedStatus,
			fmt.Errorf("%s answered %d", s.url, resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return permissions.Config{}, fmt.Errorf("reading response body: %w", err)
	}

	return ParseJSON(data)
}
