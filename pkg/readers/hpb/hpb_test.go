package hpb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edpop/explorer/pkg/reader/registry"
	"github.com/edpop/explorer/pkg/record"
)

const payload = `<record>
  <controlfield tag="001">9901</controlfield>
  <datafield tag="035"><subfield code="a">(OCoLC)12345</subfield></datafield>
  <datafield tag="035"><subfield code="a">(CERL)HU-SzSEK.01.bibJAT603188</subfield></datafield>
  <datafield tag="245"><subfield code="a">Title</subfield></datafield>
</record>`

func TestCERLIdentifierAndLink(t *testing.T) {
	rec, err := Definition.Convert(Catalog, []byte(payload))
	require.NoError(t, err)

	assert.Equal(t, "HU-SzSEK.01.bibJAT603188", rec.Identifier())
	assert.Equal(t, "http://hpb.cerl.org/record/HU-SzSEK.01.bibJAT603188", rec.Link())
}

func TestFallsBackToControlField(t *testing.T) {
	rec, err := Definition.Convert(Catalog, []byte(
		`<record><controlfield tag="001">9901</controlfield></record>`))
	require.NoError(t, err)

	assert.Equal(t, "9901", rec.Identifier())
	assert.Empty(t, rec.Link())
}

func TestRegistered(t *testing.T) {
	assert.True(t, registry.Has("hpb"))
	cat, ok := registry.Catalog("hpb")
	require.True(t, ok)
	assert.Equal(t, record.Bibliographical, cat.Type)
}
