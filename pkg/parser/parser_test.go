package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func TestParseStripsScriptStyleNavFooterHeaderAside(t *testing.T) {
	raw := `<html><body>
		<script>var x = 1;</script>
		<style>.a{color:red}</style>
		<nav>Menu</nav>
		<header>Site Header</header>
		<main><p>Real content goes here.</p></main>
		<footer>Copyright</footer>
		<aside>Related links</aside>
	</body></html>`

	parsed, err := Parse(raw, "https://example.com/")
	require.NoError(t, err)

	text := visibleText(parsed.Doc)
	assert.NotContains(t, text, "var x = 1")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "Menu")
	assert.NotContains(t, text, "Site Header")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "Related links")
	assert.Contains(t, text, "Real content goes here.")
}

func TestParseStripsAdAndCookieBannerClasses(t *testing.T) {
	raw := `<html><body>
		<div class="ad-banner">Buy now</div>
		<div id="cookie-banner">We use cookies</div>
		<div><p>Legitimate paragraph that should survive the noise filter intact.</p></div>
	</body></html>`

	parsed, err := Parse(raw, "https://example.com/")
	require.NoError(t, err)

	text := visibleText(parsed.Doc)
	assert.NotContains(t, text, "Buy now")
	assert.NotContains(t, text, "We use cookies")
	assert.Contains(t, text, "Legitimate paragraph")
}

func TestPickMainContainerPrefersMainOverArticleAndDiv(t *testing.T) {
	raw := `<html><body>
		<div>` + strings.Repeat("filler text that is long enough to win a naive scan ", 20) + `</div>
		<article>Article body</article>
		<main>Main body</main>
	</body></html>`

	parsed, err := Parse(raw, "https://example.com/")
	require.NoError(t, err)

	assert.Equal(t, atom.Main, parsed.Main.DataAtom)
}

func TestPickMainContainerFallsBackToArticleWithoutMain(t *testing.T) {
	raw := `<html><body>
		<div>` + strings.Repeat("filler text that is long enough to win a naive scan ", 20) + `</div>
		<article>Article body</article>
	</body></html>`

	parsed, err := Parse(raw, "https://example.com/")
	require.NoError(t, err)

	assert.Equal(t, atom.Article, parsed.Main.DataAtom)
}

func TestPickMainContainerFallsBackToBodyWithNoStrongCandidate(t *testing.T) {
	raw := `<html><body><span>hi</span></body></html>`

	parsed, err := Parse(raw, "https://example.com/")
	require.NoError(t, err)

	require.NotNil(t, parsed.Main)
	assert.Equal(t, atom.Body, parsed.Main.DataAtom)
}

func TestLargestContentDivPicksDivWithMostVisibleText(t *testing.T) {
	raw := `<html><body>
		<div>short</div>
		<div>` + strings.Repeat("this is a long paragraph with plenty of words in it. ", 10) + `</div>
	</body></html>`

	doc, err := html.Parse(strings.NewReader(raw))
	require.NoError(t, err)

	main := largestContentDiv(doc, raw, "https://example.com/")
	require.NotNil(t, main)
	assert.Greater(t, len(visibleText(main)), 200)
}
