// Package github lists and reads files of a GitHub repository through the
// contents API.
package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"

	"github.com/yetics/armkit/internal/versions"
)

// DefaultRepository hosts the published Azure resource manager schemas.
const DefaultRepository = "Azure/azure-resource-manager-schemas"

// Client reads one repository.
type Client struct {
	api   *gh.Client
	owner string
	repo  string
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	token   string
	baseURL string
}

// WithToken authenticates requests with a personal access token.
func WithToken(token string) Option {
	return func(o *clientOptions) { o.token = token }
}

// WithBaseURL points the client at another API endpoint, such as a GitHub
// Enterprise server or a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// NewClient creates a Client for repository, given as "owner/name".
func NewClient(ctx context.Context, repository string, opts ...Option) (*Client, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("invalid repository %q: expected owner/name", repository)
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	var httpClient *http.Client
	if o.token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token}))
	}

	api := gh.NewClient(httpClient)
	if o.baseURL != "" {
		u, err := url.Parse(o.baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL: %w", err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		api.BaseURL = u
	}

	return &Client{api: api, owner: owner, repo: repo}, nil
}

// ListDirectory returns the entries of a directory in listing order.
func (c *Client) ListDirectory(ctx context.Context, path string) ([]versions.Entry, error) {
	file, dir, _, err := c.api.Repositories.GetContents(ctx, c.owner, c.repo, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s in %s/%s: %w", path, c.owner, c.repo, err)
	}
	if file != nil {
		return nil, fmt.Errorf("%s in %s/%s is a file, not a directory", path, c.owner, c.repo)
	}

	entries := make([]versions.Entry, 0, len(dir))
	for _, item := range dir {
		entries = append(entries, versions.Entry{
			Name: item.GetName(),
			Path: item.GetPath(),
			Type: item.GetType(),
		})
	}
	return entries, nil
}

// GetFileContents returns the decoded contents of a file. Files too large
// for the contents API are downloaded through their raw URL instead.
func (c *Client) GetFileContents(ctx context.Context, path string) ([]byte, error) {
	file, _, _, err := c.api.Repositories.GetContents(ctx, c.owner, c.repo, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from %s/%s: %w", path, c.owner, c.repo, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s in %s/%s is a directory, not a file", path, c.owner, c.repo)
	}

	if file.GetEncoding() == "none" {
		return c.download(ctx, path)
	}

	var raw string
	if file.Content != nil {
		raw = *file.Content
	}
	data, err := DecodeContent(file.GetEncoding(), raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return data, nil
}

func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	rc, _, err := c.api.Repositories.DownloadContents(ctx, c.owner, c.repo, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s from %s/%s: %w", path, c.owner, c.repo, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// DecodeContent turns the content field of a contents API response into
// bytes. The API wraps base64 payloads at 60 columns, so line breaks are
// dropped before decoding.
func DecodeContent(encoding, content string) ([]byte, error) {
	switch encoding {
	case "base64":
		clean := strings.NewReplacer("\n", "", "\r", "").Replace(content)
		return base64.StdEncoding.DecodeString(clean)
	case "", "utf-8":
		return []byte(content), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
