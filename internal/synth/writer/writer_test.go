package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/armforge/armforge/internal/synth"
	"github.com/armforge/armforge/internal/synth/discover"
	"github.com/armforge/armforge/internal/synth/partition"
)

const stack = `
name: webapp
resources:
  - id: storage1
    type: Microsoft.Storage/storageAccounts
    apiVersion: "2023-01-01"
  - id: site1
    type: Microsoft.Web/sites
    apiVersion: "2023-01-01"
    dependsOn: [storage1]
`

func TestWrite(t *testing.T) {
	def, err := discover.Parse([]byte(stack))
	require.NoError(t, err)

	out, err := synth.New(partition.Options{}, zap.NewNop().Sugar()).Run(def)
	require.NoError(t, err)

	dir := t.TempDir()
	manifest, err := New(dir, zap.NewNop().Sugar()).Write(def.Name, out.Templates, out.Result, out.Plan)
	require.NoError(t, err)

	assert.Equal(t, "webapp", manifest.Stack)
	assert.NotEmpty(t, manifest.RunID)

	// One file per document plus the manifest.
	for _, doc := range manifest.Documents {
		path := filepath.Join(dir, doc.FileName)
		data, err := os.ReadFile(path)
		require.NoError(t, err, "document %s must exist", doc.FileName)
		assert.True(t, json.Valid(data), "document %s must be valid JSON", doc.FileName)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	var roundTrip Manifest
	require.NoError(t, json.Unmarshal(data, &roundTrip))
	assert.Equal(t, manifest.RunID, roundTrip.RunID)
	assert.Len(t, roundTrip.Documents, len(manifest.Documents))

	// The root document exists and comes last: its nested deployments can
	// only resolve once the split documents are staged.
	last := manifest.Documents[len(manifest.Documents)-1]
	assert.True(t, last.IsRoot)
}

func TestWriteRecordsDocumentDependencies(t *testing.T) {
	def, err := discover.Parse([]byte(stack))
	require.NoError(t, err)

	out, err := synth.New(partition.Options{}, zap.NewNop().Sugar()).Run(def)
	require.NoError(t, err)

	manifest, err := New(t.TempDir(), zap.NewNop().Sugar()).Write(def.Name, out.Templates, out.Result, out.Plan)
	require.NoError(t, err)

	byName := make(map[string]ManifestDocument)
	for _, d := range manifest.Documents {
		byName[d.Name] = d
	}
	siteDoc := byName[out.Result.Assignment["site1"]]
	assert.Equal(t, []string{out.Result.Assignment["storage1"]}, siteDoc.DependsOn)
}
