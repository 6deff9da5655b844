// Package source fetches schema documents from local files or HTTP(S) URLs.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/yetics/armkit/internal/schema"
)

// Source retrieves and parses a schema document.
type Source interface {
	Fetch(ctx context.Context, locator string) (*schema.Document, error)
}

// RetrievalError wraps a failure to read a document from its locator.
type RetrievalError struct {
	Locator string
	Err     error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to retrieve schema from %s: %v", e.Locator, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) { l.client = client }
}

// WithMaxDepth bounds the nesting depth accepted by the parser.
func WithMaxDepth(depth int) Option {
	return func(l *Loader) { l.maxDepth = depth }
}

// WithMetaSchemaValidation checks every fetched document against the JSON
// Schema draft-04 meta-schema before it is returned.
func WithMetaSchemaValidation() Option {
	return func(l *Loader) { l.validate = true }
}

// Loader is the default Source. Locators starting with http:// or https://
// are fetched over HTTP; anything else is read from the filesystem.
type Loader struct {
	client   *http.Client
	maxDepth int
	validate bool
}

// NewLoader creates a Loader
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:   http.DefaultClient,
		maxDepth: schema.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fetch reads, parses and optionally validates the document at locator.
func (l *Loader) Fetch(ctx context.Context, locator string) (*schema.Document, error) {
	data, err := l.read(ctx, locator)
	if err != nil {
		return nil, &RetrievalError{Locator: locator, Err: err}
	}

	doc, err := schema.ParseDocument(data, schema.WithMaxDepth(l.maxDepth))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema from %s: %w", locator, err)
	}

	if l.validate {
		if err := ValidateMetaSchema(doc.Root); err != nil {
			return nil, fmt.Errorf("schema from %s: %w", locator, err)
		}
	}
	return doc, nil
}

func (l *Loader) read(ctx context.Context, locator string) ([]byte, error) {
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return l.fetchFromHTTP(ctx, locator)
	}
	return os.ReadFile(locator)
}

func (l *Loader) fetchFromHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from HTTP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
