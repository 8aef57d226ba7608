package readability_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readability.NewExtractor().Extract("")

	require.Error(t, err)
	assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Page Title</title></head>
<body><article><p>Content</p></article></body>
</html>`

	meta, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Equal(t, "Page Title", meta.Title)
}

func TestExtractor_ExtractsByline(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head>
<title>Storm Warning</title>
<meta name="author" content="John Park">
</head>
<body><article><p>Forecasters said the storm will arrive tonight and schools will close.</p></article></body>
</html>`

	meta, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Equal(t, "John Park", meta.Byline)
}
