package jsonld_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/jsonld-quality/jsonld"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Example</title>
  <script type="application/ld+json">
    {"@context": "https://schema.org", "@type": "Organization", "name": "Example"}
  </script>
  <script type="text/javascript">var x = 1;</script>
  <script type="Application/LD+JSON; charset=utf-8">{"@type": "WebSite"</script>
</head>
<body>
  <script type="application/ld+json">   </script>
  <script type="application/ld+json">[{"@type": "Article"}]</script>
</body>
</html>`

func TestExtractScripts(t *testing.T) {
	t.Parallel()

	blocks, err := jsonld.ExtractScripts(strings.NewReader(samplePage))
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.JSONEq(t, `{"@context": "https://schema.org", "@type": "Organization", "name": "Example"}`, string(blocks[0]))
	assert.Equal(t, `{"@type": "WebSite"`, string(blocks[1]), "malformed blocks are kept for validation")
	assert.Equal(t, `[{"@type": "Article"}]`, string(blocks[2]))
}

func TestExtractScripts_NoStructuredData(t *testing.T) {
	t.Parallel()

	blocks, err := jsonld.ExtractScripts(strings.NewReader(`<html><body><p>plain</p></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, blocks)
}
