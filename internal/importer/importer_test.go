package importer_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yetics/armkit/internal/emitter"
	"github.com/yetics/armkit/internal/importer"
	"github.com/yetics/armkit/internal/schema"
	"github.com/yetics/armkit/internal/source"
)

const computeSchema = `{
	"title": "Microsoft.Compute",
	"resourceDefinitions": {
		"virtualMachines": {"type": "object", "properties": {"name": {"type": "string"}}},
		"disks": {"type": "object"},
		"availabilitySets": {"type": "object"}
	}
}`

type mockEmitter struct {
	mock.Mock
}

func (m *mockEmitter) Emit(c emitter.Construct) {
	m.Called(c.FQN, c.Kind)
}

func TestImportService_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Microsoft.Compute.json")
	require.NoError(t, os.WriteFile(path, []byte(computeSchema), 0600))

	out := emitter.NewManifest()
	service := importer.NewService(source.NewLoader(), zerolog.Nop())

	records, err := service.ImportFromPath(context.Background(), path, out)
	require.NoError(t, err)
	require.Len(t, records, 3)

	constructs := out.Constructs()
	require.Len(t, constructs, 3)
	assert.Equal(t, "Microsoft.Compute.virtualMachines", constructs[0].FQN)
	assert.Equal(t, "virtualMachines", constructs[0].Kind)
	assert.Equal(t, "object", mustString(t, constructs[0].Schema.Get("type")))
	assert.Equal(t, "Microsoft.Compute.disks", constructs[1].FQN)
	assert.Equal(t, "Microsoft.Compute.availabilitySets", constructs[2].FQN)
}

func TestImportService_HTTPFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(computeSchema))
	}))
	defer server.Close()

	out := new(mockEmitter)
	call1 := out.On("Emit", "Microsoft.Compute.virtualMachines", "virtualMachines").Once()
	call2 := out.On("Emit", "Microsoft.Compute.disks", "disks").Once().NotBefore(call1)
	out.On("Emit", "Microsoft.Compute.availabilitySets", "availabilitySets").Once().NotBefore(call2)

	service := importer.NewService(source.NewLoader(), zerolog.Nop())
	_, err := service.ImportFromPath(context.Background(), server.URL+"/Microsoft.Compute.json", out)
	require.NoError(t, err)

	out.AssertExpectations(t)
}

func TestImportService_UntitledSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untitled.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"resourceDefinitions": {"thing": {}}}`), 0600))

	out := emitter.NewManifest()
	service := importer.NewService(source.NewLoader(), zerolog.Nop())

	_, err := service.ImportFromPath(context.Background(), path, out)
	require.NoError(t, err)
	require.Len(t, out.Constructs(), 1)
	assert.Equal(t, "undefined.thing", out.Constructs()[0].FQN)
}

func TestImportService_NoDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "common.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title": "common", "definitions": {}}`), 0600))

	var logs bytes.Buffer
	out := emitter.NewManifest()
	service := importer.NewService(source.NewLoader(), zerolog.New(&logs))

	records, err := service.ImportFromPath(context.Background(), path, out)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, out.Constructs())
	assert.Contains(t, logs.String(), "schema declares no resource definitions")
}

func TestImportService_FailsWithoutEmitting(t *testing.T) {
	dir := t.TempDir()
	malformed := filepath.Join(dir, "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte(`{"title": "X", "resourceDefinitions": ["a"]}`), 0600))

	tests := []struct {
		name    string
		locator string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "missing file",
			locator: filepath.Join(dir, "missing.json"),
			check: func(t *testing.T, err error) {
				var retrieval *source.RetrievalError
				assert.True(t, errors.As(err, &retrieval))
			},
		},
		{
			name:    "malformed document",
			locator: malformed,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, schema.ErrMalformedInput)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := new(mockEmitter)
			service := importer.NewService(source.NewLoader(), zerolog.Nop())

			_, err := service.ImportFromPath(context.Background(), tt.locator, out)
			require.Error(t, err)
			tt.check(t, err)
			out.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
		})
	}
}

func mustString(t *testing.T, n *schema.Node) string {
	t.Helper()
	s, ok := n.AsString()
	require.True(t, ok)
	return s
}
