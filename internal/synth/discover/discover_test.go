package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armforge/armforge/internal/synth/metadata"
)

const sampleStack = `
name: webapp
parameters:
  environment:
    type: string
    default: dev
resources:
  - id: storage1
    type: Microsoft.Storage/storageAccounts
    apiVersion: "2023-01-01"
    location: westeurope
    properties:
      accountType: Standard_LRS
  - id: site1
    type: Microsoft.Web/sites
    apiVersion: "2023-01-01"
    location: westeurope
    tier: application
    dependsOn: [storage1]
    sameDocumentAs: [storage1]
    properties:
      connection: "${ref:storage1}"
`

func TestParse(t *testing.T) {
	def, err := Parse([]byte(sampleStack))
	require.NoError(t, err)

	assert.Equal(t, "webapp", def.Name)
	require.Len(t, def.Resources, 2)

	require.Contains(t, def.Parameters, "environment")
	assert.Equal(t, "string", def.Parameters["environment"].Type)

	storage := def.Resources[0]
	assert.Equal(t, "storage1", storage.Metadata.ID)
	assert.Equal(t, "Microsoft.Storage/storageAccounts", storage.Metadata.Type)
	assert.Greater(t, storage.Metadata.SizeEstimate, 0)

	site := def.Resources[1]
	assert.Equal(t, []string{"storage1"}, site.Metadata.Dependencies)
	assert.Equal(t, []string{"storage1"}, site.Metadata.RequiresSameDocument)
	assert.Equal(t, metadata.TierApplication, site.Metadata.TierPreference)
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte(`
name: dup
resources:
  - id: a
    type: Custom.Provider/things
  - id: a
    type: Custom.Provider/things
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParseRejectsMissingFields(t *testing.T) {
	_, err := Parse([]byte("resources: []"))
	require.Error(t, err, "missing stack name")

	_, err = Parse([]byte(`
name: x
resources:
  - type: Custom.Provider/things
`))
	require.Error(t, err, "missing resource id")

	_, err = Parse([]byte(`
name: x
resources:
  - id: a
`))
	require.Error(t, err, "missing resource type")
}

func TestMetadataOrder(t *testing.T) {
	def, err := Parse([]byte(sampleStack))
	require.NoError(t, err)

	metas := def.Metadata()
	require.Len(t, metas, 2)
	assert.Equal(t, "storage1", metas[0].ID)
	assert.Equal(t, "site1", metas[1].ID)
}
