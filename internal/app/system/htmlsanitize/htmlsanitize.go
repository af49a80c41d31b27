// Package htmlsanitize cleans user-supplied HTML before it is stored.
//
// Profile bios accept a small rich-text vocabulary (formatting, lists,
// links, code); one-line fields like headline and institution are reduced
// to plain text.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// richText allows the formatting a profile bio may carry. UGCPolicy
	// covers paragraphs, emphasis, lists, blockquotes, code, and links
	// (with rel="nofollow" forced on anchors).
	richText = bluemonday.UGCPolicy()

	// plainText strips all markup.
	plainText = bluemonday.StrictPolicy()
)

// Sanitize returns bio HTML with scripts, event handlers, javascript: URLs,
// and unknown elements removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return richText.Sanitize(s)
}

// StripTags reduces a one-line field to plain text.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(plainText.Sanitize(s))
}
