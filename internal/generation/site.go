package generation

import (
	"strings"
	"unicode/utf8"
)

// Placeholders written for empty stylesheet and script files.
const (
	EmptyCSS = "/* empty */"
	EmptyJS  = "// empty"
)

// Site is a generated single-page website split into its three files.
type Site struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// IsEmpty reports whether every part is blank.
func (s *Site) IsEmpty() bool {
	return s == nil ||
		strings.TrimSpace(s.HTML) == "" &&
			strings.TrimSpace(s.CSS) == "" &&
			strings.TrimSpace(s.JS) == ""
}

// IsFullDocument reports whether HTML already is a complete document rather
// than a body fragment.
func (s *Site) IsFullDocument() bool {
	return strings.Contains(strings.ToLower(s.HTML), "<html")
}

// Normalize trims every part and fills placeholders for blank CSS and JS.
func (s *Site) Normalize() {
	s.HTML = strings.TrimSpace(s.HTML)
	s.CSS = strings.TrimSpace(s.CSS)
	s.JS = strings.TrimSpace(s.JS)
	if s.CSS == "" {
		s.CSS = EmptyCSS
	}
	if s.JS == "" {
		s.JS = EmptyJS
	}
}

// Preview truncates s to at most n bytes for logging, marking the cut. The cut
// never splits a UTF-8 sequence.
func Preview(s string, n int) string {
	if n < 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "...(truncated)"
}
