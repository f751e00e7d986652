package validate

import (
	"testing"

	"gotest.tools/v3/assert"

	"playbridge/internal/types"
)

const goodManifest = `products:
- id: coin_100
  kind: inapp
- id: gold_tier
  kind: subs
verificationKey: TUlJQklqQU5CZ2txaGtpRzl3MEJBUUVGQUFPQ0FROEFNSUlCQ2dLQ0FRRUE=
`

const manifestWithoutProducts = `verificationKey: abc
`

const manifestWithBadKind = `products:
- id: coin_100
  kind: consumable
`

const manifestWithEmptyID = `products:
- id: ""
  kind: inapp
`

const manifestWithDuplicateID = `products:
- id: coin_100
  kind: inapp
- id: coin_100
  kind: subs
`

func TestParseProductManifest(t *testing.T) {
	manifest, err := ParseProductManifest([]byte(goodManifest))
	assert.NilError(t, err)
	assert.Equal(t, 2, len(manifest.Products))
	assert.Assert(t, manifest.VerificationKey != "")

	products := manifest.Registered()
	assert.DeepEqual(t, []types.Product{
		{ID: "coin_100", Kind: types.KindInApp},
		{ID: "gold_tier", Kind: types.KindSubscription},
	}, products)
}

func TestParseProductManifestRejectsEmpty(t *testing.T) {
	_, err := ParseProductManifest([]byte(manifestWithoutProducts))
	assert.Assert(t, err != nil)
}

func TestParseProductManifestRejectsBadKind(t *testing.T) {
	_, err := ParseProductManifest([]byte(manifestWithBadKind))
	assert.Assert(t, err != nil)
}

func TestParseProductManifestRejectsEmptyID(t *testing.T) {
	_, err := ParseProductManifest([]byte(manifestWithEmptyID))
	assert.Assert(t, err != nil)
}

func TestParseProductManifestKeepsDuplicates(t *testing.T) {
	// Duplicates are legal in the manifest; the session registry resolves
	// them last-write-wins at setup.
	manifest, err := ParseProductManifest([]byte(manifestWithDuplicateID))
	assert.NilError(t, err)
	assert.Equal(t, 2, len(manifest.Registered()))
}

func TestParseProductManifestRejectsGarbage(t *testing.T) {
	_, err := ParseProductManifest([]byte("not: [valid"))
	assert.Assert(t, err != nil)
}
