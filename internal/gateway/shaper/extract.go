package shaper

import (
	"regexp"
	"strings"

	"github.com/micropay-labs/api-gateway/internal/gateway/types"
)

const (
	// extractCeiling is applied to the stripped text before the exposed
	// cut, so Truncated reflects whether the ceiling-capped text exceeds
	// extractLimit. The two stages must run in this order.
	extractCeiling = 5000
	extractLimit   = 2000
)

var (
	scriptRe     = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style.*?</style>`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ShapeExtract strips script/style blocks and all markup from the raw
// page, collapses whitespace, and applies the two-stage truncation.
// Entity decoding is out of scope; this is a best-effort regex strip,
// not a DOM parse.
func ShapeExtract(pageURL, rawHTML string) types.ExtractedPage {
	text := scriptRe.ReplaceAllString(rawHTML, "")
	text = styleRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > extractCeiling {
		runes = runes[:extractCeiling]
	}

	truncated := len(runes) > extractLimit
	if truncated {
		runes = runes[:extractLimit]
	}

	return types.ExtractedPage{
		URL:       pageURL,
		Extracted: string(runes),
		Truncated: truncated,
	}
}
