package github_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yetics/armkit/internal/github"
	"github.com/yetics/armkit/internal/versions"
)

const template = `{"properties": {"resources": {"items": {"oneOf": [{"$ref": "https://schema.management.azure.com/schemas/2019-04-01/Microsoft.Storage.json#/resourceDefinitions/storageAccounts"}]}}}}`

// wrap60 mimics the line-wrapped base64 the contents API returns.
func wrap60(s string) string {
	var b strings.Builder
	for len(s) > 60 {
		b.WriteString(s[:60])
		b.WriteString("\n")
		s = s[60:]
	}
	b.WriteString(s)
	return b.String()
}

func newTestServer(t *testing.T, wantAuth string) *httptest.Server {
	t.Helper()
	const prefix = "/repos/Azure/azure-resource-manager-schemas/contents/"

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")

		switch strings.TrimPrefix(r.URL.Path, prefix) {
		case "schemas":
			_ = json.NewEncoder(w).Encode([]map[string]string{
				{"name": "2015-01-01", "path": "schemas/2015-01-01", "type": "dir"},
				{"name": "2019-04-01", "path": "schemas/2019-04-01", "type": "dir"},
				{"name": "common", "path": "schemas/common", "type": "dir"},
			})
		case "schemas/2019-04-01/deploymentTemplate.json":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"type":     "file",
				"name":     "deploymentTemplate.json",
				"path":     "schemas/2019-04-01/deploymentTemplate.json",
				"encoding": "base64",
				"content":  wrap60(base64.StdEncoding.EncodeToString([]byte(template))),
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "Not Found"}`))
		}
	}))
}

func TestClient_ListDirectory(t *testing.T) {
	server := newTestServer(t, "")
	defer server.Close()

	client, err := github.NewClient(context.Background(), github.DefaultRepository, github.WithBaseURL(server.URL))
	require.NoError(t, err)

	entries, err := client.ListDirectory(context.Background(), "schemas")
	require.NoError(t, err)
	assert.Equal(t, []versions.Entry{
		{Name: "2015-01-01", Path: "schemas/2015-01-01", Type: "dir"},
		{Name: "2019-04-01", Path: "schemas/2019-04-01", Type: "dir"},
		{Name: "common", Path: "schemas/common", Type: "dir"},
	}, entries)
}

func TestClient_GetFileContentsDecodesBase64(t *testing.T) {
	server := newTestServer(t, "Bearer secret-token")
	defer server.Close()

	client, err := github.NewClient(context.Background(), github.DefaultRepository,
		github.WithBaseURL(server.URL),
		github.WithToken("secret-token"),
	)
	require.NoError(t, err)

	data, err := client.GetFileContents(context.Background(), "schemas/2019-04-01/deploymentTemplate.json")
	require.NoError(t, err)
	assert.JSONEq(t, template, string(data))
}

func TestClient_NotFound(t *testing.T) {
	server := newTestServer(t, "")
	defer server.Close()

	client, err := github.NewClient(context.Background(), github.DefaultRepository, github.WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.GetFileContents(context.Background(), "schemas/2015-01-01/deploymentTemplate.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schemas/2015-01-01/deploymentTemplate.json")
}

func TestNewClient_InvalidRepository(t *testing.T) {
	for _, repo := range []string{"", "owner", "/repo", "owner/", "a/b/c"} {
		_, err := github.NewClient(context.Background(), repo)
		assert.Error(t, err, repo)
	}
}

func TestDecodeContent(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		content  string
		want     string
		wantErr  bool
	}{
		{"base64", "base64", base64.StdEncoding.EncodeToString([]byte("héllo wörld")), "héllo wörld", false},
		{"wrapped base64", "base64", "eyJ0aXRs\nZSI6ICJ4\nIn0=\n", `{"title": "x"}`, false},
		{"plain", "", "raw text", "raw text", false},
		{"invalid base64", "base64", "!!!", "", true},
		{"unknown encoding", "gzip", "abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := github.DecodeContent(tt.encoding, tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
