package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPPNExtraction(t *testing.T) {
	rec, err := Definition.Convert(Catalog, []byte(`<srw_dc:dcx
    xmlns:srw_dc="info:srw/schema/1/dc-v1.1"
    xmlns:dc="http://purl.org/dc/elements/1.1/"
    xmlns:dcx="http://krait.kb.nl/coop/tel/handbook/telterms.html">
  <dc:title>Statenvertaling</dc:title>
  <dcx:OaiPmhIdentifier>GGC:AC:123456789</dcx:OaiPmhIdentifier>
</srw_dc:dcx>`))
	require.NoError(t, err)

	assert.Equal(t, "123456789", rec.Identifier())
	assert.Equal(t, "https://webggc.oclc.org/cbs/DB=2.37/PPN?PPN=123456789", rec.Link())
}

func TestNoPPN(t *testing.T) {
	rec, err := Definition.Convert(Catalog, []byte(
		`<dc xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Anonymous</dc:title></dc>`))
	require.NoError(t, err)

	assert.Empty(t, rec.Identifier())
	assert.Empty(t, rec.Link())
}

func TestExtraParams(t *testing.T) {
	assert.Equal(t, "GGC", Definition.ExtraParams.Get("x-collection"))
}
