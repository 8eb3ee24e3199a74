package generation

import (
	"regexp"
	"strings"
)

var (
	openingFenceRegex   = regexp.MustCompile("(?m)^```[a-zA-Z]*")
	htmlCommentRegex    = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockCommentRegex   = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRegex    = regexp.MustCompile(`(?m)^\s*//.*$`)
	leadingJSONFence    = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	trailingFenceRegex  = regexp.MustCompile("\\s*```$")
	firstJSONBlockRegex = regexp.MustCompile(`(?s)\{.*\}`)
)

// CleanCode strips markdown fences, HTML comments, block comments and
// whole-line // comments from a code section.
func CleanCode(code string) string {
	code = openingFenceRegex.ReplaceAllString(code, "")
	code = strings.ReplaceAll(code, "```", "")
	code = htmlCommentRegex.ReplaceAllString(code, "")
	code = blockCommentRegex.ReplaceAllString(code, "")
	code = lineCommentRegex.ReplaceAllString(code, "")
	return strings.TrimSpace(code)
}

// extractJSONBlock returns the outermost {...} span of text once surrounding
// markdown fences are removed, or "" when there is none.
func extractJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = leadingJSONFence.ReplaceAllString(text, "")
	text = trailingFenceRegex.ReplaceAllString(text, "")
	return firstJSONBlockRegex.FindString(text)
}
