package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMediaSkipsTrackingPixelsAndIcons(t *testing.T) {
	main := mainNode(t, `<html><body>
		<img src="/pixel.gif" width="1" height="1">
		<img src="/icon.png" width="16" height="16">
		<img src="/hero.jpg" width="800" height="600" alt="Hero banner">
	</body></html>`)

	images := extractMedia(main)

	require.Len(t, images, 1)
	assert.Equal(t, "/hero.jpg", images[0].Src)
	assert.True(t, images[0].HasAlt)
	assert.False(t, images[0].Decorative)
}

func TestExtractMediaFlagsMissingAltAsDecorative(t *testing.T) {
	main := mainNode(t, `<html><body><img src="/hero.jpg" width="800" height="600"></body></html>`)

	images := extractMedia(main)

	require.Len(t, images, 1)
	assert.False(t, images[0].HasAlt)
	assert.True(t, images[0].Decorative)
}

func TestExtractMediaTreatsGenericAltTextAsDecorative(t *testing.T) {
	main := mainNode(t, `<html><body><img src="/hero.jpg" width="800" height="600" alt="image"></body></html>`)

	images := extractMedia(main)

	require.Len(t, images, 1)
	assert.True(t, images[0].HasAlt)
	assert.True(t, images[0].Decorative)
}

func TestExtractMediaSkipsImagesWithoutSrc(t *testing.T) {
	main := mainNode(t, `<html><body><img alt="no src"></body></html>`)

	images := extractMedia(main)

	assert.Empty(t, images)
}

func TestParseDimensionHandlesPxSuffixAndInvalidInput(t *testing.T) {
	v := parseDimension("800px")
	require.NotNil(t, v)
	assert.Equal(t, 800, *v)

	assert.Nil(t, parseDimension(""))
	assert.Nil(t, parseDimension("not-a-number"))
}
