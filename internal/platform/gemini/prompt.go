package gemini

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/phrazzld/sitegen/internal/generation"
)

//go:embed prompts/site.tmpl
var defaultPromptTemplate string

// promptData represents the data passed to the prompt template
type promptData struct {
	Prompt string
}

// loadPromptTemplate parses the template at path, or the embedded default
// when path is empty.
func loadPromptTemplate(path string) (*template.Template, error) {
	content := defaultPromptTemplate
	name := "site"

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, path, err)
		}
		content = string(raw)
		name = path
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

// renderPrompt executes tmpl for the user's prompt.
func renderPrompt(tmpl *template.Template, userPrompt string) (string, error) {
	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return "", generation.ErrEmptyPrompt
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Prompt: userPrompt}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
