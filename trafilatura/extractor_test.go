package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
<title>Council Approves Transit Plan - City News</title>
<meta property="og:title" content="Council Approves Transit Plan">
<meta name="author" content="Ana Lima">
</head>
<body>
<nav><a href="/">Home</a><a href="/local">Local</a></nav>
<article>
<h1>Council Approves Transit Plan</h1>
<p>The city council approved the new transit plan on Tuesday after months of debate.
Officials said construction of the first light rail segment will begin next spring.</p>
<p>Residents along the proposed route raised concerns about noise and parking during
public hearings held this summer, and the council promised further consultation.</p>
</article>
<footer>Copyright 2025 City News</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("reads the title from meta tags", func(t *testing.T) {
		t.Parallel()

		meta, err := trafilatura.NewExtractor().Extract(articlePage)

		require.NoError(t, err)
		assert.Contains(t, meta.Title, "Council Approves Transit Plan")
	})

	t.Run("reads the byline", func(t *testing.T) {
		t.Parallel()

		meta, err := trafilatura.NewExtractor().Extract(articlePage)

		require.NoError(t, err)
		assert.Contains(t, meta.Byline, "Ana Lima")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract(" ")

		require.Error(t, err)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})
}
