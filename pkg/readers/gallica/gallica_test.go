package gallica

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edpop/explorer/pkg/record"
)

const payload = `<srw_dc:dc xmlns:srw_dc="info:srw/schema/1/dc-v1.1"
    xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:identifier>ark:/12148/bpt6k853577p</dc:identifier>
  <dc:identifier>https://gallica.bnf.fr/ark:/12148/bpt6k853577p</dc:identifier>
  <dc:title>Essais</dc:title>
  <dc:creator>Montaigne, Michel de</dc:creator>
  <dc:date>1595</dc:date>
  <dc:format>Nombre total de vues : 1024</dc:format>
  <dc:format>image/jpeg</dc:format>
  <dc:format>974 p.</dc:format>
</srw_dc:dc>`

func TestTransform(t *testing.T) {
	prepared, err := Definition.Transform("montaigne")
	require.NoError(t, err)
	assert.Equal(t, "gallica all montaigne", prepared.QueryString())
}

func TestConvert(t *testing.T) {
	rec, err := Definition.Convert(Catalog, []byte(payload))
	require.NoError(t, err)

	// the visitable URL doubles as the identifier
	assert.Equal(t, "https://gallica.bnf.fr/ark:/12148/bpt6k853577p", rec.Identifier())
	assert.Equal(t, rec.Identifier(), rec.Link())

	bib := rec.(*record.BibliographicalRecord)
	assert.Equal(t, "Essais", bib.Title.OriginalText())
	// view count and MIME type are not extents
	assert.Equal(t, "974 p.", bib.Extent.OriginalText())
}
