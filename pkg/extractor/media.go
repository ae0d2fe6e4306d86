package extractor

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aeoaudit/aeoaudit/pkg/model"
)

var decorativeAltValues = map[string]bool{
	"image": true, "photo": true, "picture": true,
}

const minVisibleDimension = 50

// extractMedia implements the Media extractor (spec §4.C): images with
// width/height >= 50 (skipping tracking pixels and icons), has_alt, and
// decorative classification.
func extractMedia(main *html.Node) []model.Image {
	var images []model.Image

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			src := attrOf(n, "src")
			if src == "" {
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				return
			}

			width := parseDimension(attrOf(n, "width"))
			height := parseDimension(attrOf(n, "height"))
			if isTrackingOrIcon(width, height) {
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				return
			}

			alt := attrOf(n, "alt")
			hasAlt := strings.TrimSpace(alt) != ""
			decorative := !hasAlt || decorativeAltValues[strings.ToLower(strings.TrimSpace(alt))]

			images = append(images, model.Image{
				Src:        src,
				Alt:        alt,
				Width:      width,
				Height:     height,
				HasAlt:     hasAlt,
				Decorative: decorative,
			})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(main)

	return images
}

// isTrackingOrIcon reports whether the image's declared dimensions (when
// present) put it below the 50px visibility floor.
func isTrackingOrIcon(width, height *int) bool {
	if width != nil && *width < minVisibleDimension {
		return true
	}
	if height != nil && *height < minVisibleDimension {
		return true
	}
	return false
}

func parseDimension(s string) *int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
