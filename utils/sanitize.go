package utils

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// markupTag matches an opening, closing or self closing element such as
// <b>, </p> or <br/>. A bare '<' between words is not one.
var markupTag = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9-]*(\s[^<>]*)?/?>`)

// StripMarkup removes HTML elements from generated text and trims it. Text
// without a complete tag is returned untouched apart from the trim, so
// "a<b" survives.
func StripMarkup(s string) string {
	if !markupTag.MatchString(s) {
		return strings.TrimSpace(s)
	}
	// StrictPolicy escapes entities, clients expect the raw characters back
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// StripMarkupAll applies StripMarkup to every entry and drops the ones that
// end up empty.
func StripMarkupAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if clean := StripMarkup(s); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
