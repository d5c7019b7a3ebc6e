// Package notes cleans user-supplied rich-text notes before they are stored.
// Notes arrive as HTML from the editor or as plain text from the CLI; both go
// through the same bluemonday allow-list.
package notes

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once

	textPolicy     *bluemonday.Policy
	textPolicyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		policy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
		policy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		policy.AllowElements("u", "s", "sub", "sup", "mark")
		// Editor classes such as ql-align-center, ql-indent-1.
		policy.AllowAttrs("class").OnElements("p", "span", "li", "ol", "ul", "pre", "table", "th", "td", "tr")
		policy.AllowDataAttributes()
	})
	return policy
}

func getTextPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// Sanitize strips dangerous markup and surrounding whitespace.
func Sanitize(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	return strings.TrimSpace(getPolicy().Sanitize(content))
}

// IsBlank reports whether content has no visible text once all markup is
// removed, e.g. "", "   " or an empty editor document like "<p><br></p>".
func IsBlank(content string) bool {
	text := html.UnescapeString(getTextPolicy().Sanitize(content))
	return strings.TrimSpace(text) == ""
}
