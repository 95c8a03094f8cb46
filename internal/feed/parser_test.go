package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<products>
  <product>
    <sku> A-100 </sku>
    <name>Κρεμαστό Φωτιστικό</name>
    <quantity>4</quantity>
    <retail-price>100.00</retail-price>
    <discounted-price>80.00</discounted-price>
    <categories>
      <item>Φωτιστικά</item>
      <item>Διακόσμηση</item>
    </categories>
    <photo>https://cdn.example.com/a100.jpg</photo>
    <photos>
      <item>https://cdn.example.com/a100-side.jpg</item>
    </photos>
    <description>Μοντέρνο κρεμαστό φωτιστικό.</description>
  </product>
  <product>
    <sku>B-200</sku>
    <name>Vase</name>
    <quantity>0</quantity>
    <retail-price>25.00</retail-price>
    <categories>
      <item>Διακόσμηση</item>
    </categories>
  </product>
</products>`

func TestParse(t *testing.T) {
	records, err := Parse([]byte(sampleFeed))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "A-100", first.SKU, "scalar fields are trimmed")
	assert.Equal(t, "Κρεμαστό Φωτιστικό", first.Name)
	assert.Equal(t, "4", first.Quantity)
	assert.Equal(t, []string{"Φωτιστικά", "Διακόσμηση"}, first.Categories)
	assert.Equal(t, []string{"https://cdn.example.com/a100-side.jpg"}, first.Photos)
	assert.Equal(t, "https://cdn.example.com/a100.jpg", first.Photo)

	second := records[1]
	assert.Equal(t, []string{"Διακόσμηση"}, second.Categories, "a single <item> still yields a list")
	assert.Empty(t, second.Photos)
	assert.NotNil(t, second.Photos, "absent repeated elements coerce to an empty list")
}

func TestParseSingleItemCoercion(t *testing.T) {
	doc := `<products><product>
		<sku>C-1</sku><name>Lamp</name><quantity>1</quantity>
		<categories><item>Φωτιστικά</item></categories>
	</product></products>`

	records, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Φωτιστικά"}, records[0].Categories)
}

func TestParseMissingRoot(t *testing.T) {
	_, err := Parse([]byte(`<catalog><product><sku>X</sku></product></catalog>`))
	assert.Error(t, err)
}

func TestParseNoProducts(t *testing.T) {
	_, err := Parse([]byte(`<products></products>`))
	assert.ErrorIs(t, err, ErrNoProducts)
}

func TestParseMalformedXML(t *testing.T) {
	_, err := Parse([]byte(`<products><product><sku>X</sku>`))
	assert.Error(t, err)
}

func TestParseDropsBlankListItems(t *testing.T) {
	doc := `<products><product>
		<sku>D-1</sku><name>Shelf</name><quantity>2</quantity>
		<categories><item>  </item><item>Έπιπλα</item></categories>
	</product></products>`

	records, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"Έπιπλα"}, records[0].Categories)
}
