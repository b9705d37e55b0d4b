package cerl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edpop/explorer/pkg/record"
)

func sampleRow() map[string]interface{} {
	return map[string]interface{}{
		"id": "cnp01234567",
		"heading": []interface{}{
			map[string]interface{}{"firstname": "Dirck", "name": "Coornhert"},
		},
		"variantName": []interface{}{
			map[string]interface{}{"name": "Koornhert"},
			map[string]interface{}{},
		},
		"placeOfActitivty": []interface{}{
			map[string]interface{}{"name": "Haarlem"},
		},
	}
}

func TestConvertThesaurusRow(t *testing.T) {
	rec, err := ThesaurusDefinition.Convert(ThesaurusCatalog, sampleRow())
	require.NoError(t, err)

	bio := rec.(*record.BiographicalRecord)
	assert.Equal(t, "cnp01234567", bio.ID)
	assert.Equal(t, "https://data.cerl.org/thesaurus/cnp01234567", bio.URL)
	assert.Equal(t, "Dirck Coornhert", bio.Name.OriginalText())

	// name entries without any name component are skipped
	require.Len(t, bio.VariantNames, 1)
	assert.Equal(t, "Koornhert", bio.VariantNames[0].OriginalText())

	require.Len(t, bio.PlacesOfActivity, 1)
	assert.Equal(t, "Haarlem", bio.PlacesOfActivity[0].OriginalText())
}

func TestConvertFallsBackToUnderscoreID(t *testing.T) {
	rec, err := SBTIDefinition.Convert(SBTICatalog, map[string]interface{}{
		"_id": "sbti-42",
	})
	require.NoError(t, err)

	assert.Equal(t, "sbti-42", rec.Identifier())
	assert.Equal(t, "https://data.cerl.org/sbti/sbti-42", rec.Link())
}

func TestConvertWithoutIdentifier(t *testing.T) {
	rec, err := ThesaurusDefinition.Convert(ThesaurusCatalog, map[string]interface{}{})
	require.NoError(t, err)

	assert.Empty(t, rec.Identifier())
	assert.Empty(t, rec.Link())
}
