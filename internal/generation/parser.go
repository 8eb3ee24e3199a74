package generation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Section markers used by the plain-text reply format.
const (
	MarkerHTML = "[HTML]"
	MarkerCSS  = "[CSS]"
	MarkerJS   = "[JS]"
)

// ParseOutput converts raw model output into a Site. It tries, in order:
// the whole text as a JSON object, the first {...} block after stripping
// fences, [HTML]/[CSS]/[JS] sections, and finally HTML heuristics.
// It returns ErrInvalidResponse when none of them yields any content.
func ParseOutput(text string) (*Site, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty model output", ErrInvalidResponse)
	}

	if site, ok := parseJSONSite(text); ok {
		return site, nil
	}

	if block := extractJSONBlock(text); block != "" {
		if site, ok := parseJSONSite(block); ok {
			return site, nil
		}
	}

	if site, ok := parseSections(text); ok {
		return site, nil
	}

	site, err := parseHTML(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !site.IsEmpty() {
		return site, nil
	}

	return nil, fmt.Errorf("%w: unable to parse model output into html/css/js", ErrInvalidResponse)
}

func parseJSONSite(text string) (*Site, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, false
	}

	_, hasHTML := obj["html"]
	_, hasCSS := obj["css"]
	_, hasJS := obj["js"]
	if !hasHTML && !hasCSS && !hasJS {
		return nil, false
	}

	return &Site{
		HTML: stringField(obj, "html"),
		CSS:  stringField(obj, "css"),
		JS:   stringField(obj, "js"),
	}, true
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// parseSections splits text on the section markers. Each section runs until
// the next marker that follows it, in whatever order the markers appear.
func parseSections(text string) (*Site, bool) {
	type span struct {
		marker string
		start  int
	}

	var spans []span
	for _, m := range []string{MarkerHTML, MarkerCSS, MarkerJS} {
		if idx := strings.Index(text, m); idx >= 0 {
			spans = append(spans, span{marker: m, start: idx})
		}
	}
	if len(spans) == 0 {
		return nil, false
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	site := &Site{}
	for i, s := range spans {
		end := len(text)
		if i+1 < len(spans) {
			end = spans[i+1].start
		}
		body := CleanCode(text[s.start+len(s.marker) : end])

		switch s.marker {
		case MarkerHTML:
			site.HTML = body
		case MarkerCSS:
			site.CSS = body
		case MarkerJS:
			site.JS = body
		}
	}

	if site.IsEmpty() {
		return nil, false
	}
	return site, true
}

// parseHTML pulls the stylesheet, the first inline script and the page body
// out of an HTML reply. Inline <style> and <script> elements are removed from
// the body since they are written as separate files; external scripts and
// links stay so the page keeps loading its libraries.
func parseHTML(text string) (*Site, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	site := &Site{
		CSS: strings.TrimSpace(doc.Find("style").First().Text()),
	}

	inline := doc.Find("script").FilterFunction(isInlineScript).First()
	if inline.Length() > 0 {
		site.JS = strings.TrimSpace(inline.Text())
	} else {
		site.JS = strings.TrimSpace(doc.Find("script").First().Text())
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "<body") || strings.Contains(lower, "<html") {
		body := doc.Find("body").First().Clone()
		body.Find("style").Remove()
		body.Find("script").FilterFunction(isInlineScript).Remove()
		html, err := body.Html()
		if err != nil {
			return nil, fmt.Errorf("failed to render body: %w", err)
		}
		site.HTML = strings.TrimSpace(html)
		return site, nil
	}

	block := doc.Find("div, main, section, article").First()
	if block.Length() > 0 {
		html, err := goquery.OuterHtml(block)
		if err != nil {
			return nil, fmt.Errorf("failed to render block: %w", err)
		}
		site.HTML = strings.TrimSpace(html)
	}

	return site, nil
}

func isInlineScript(_ int, s *goquery.Selection) bool {
	_, hasSrc := s.Attr("src")
	return !hasSrc
}
