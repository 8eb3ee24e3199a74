// Package generation defines the boundary between the application core and
// the AI/LLM services that produce websites from natural-language prompts.
//
// The Generator interface is the injectable capability the rest of the
// application depends on; the Gemini adapter in internal/platform/gemini is
// one implementation, GeneratorFunc adapts plain functions, and Unavailable
// stands in when no model is configured. ParseOutput normalizes the many
// shapes a model reply can take (JSON, fenced JSON, [HTML]/[CSS]/[JS]
// sections, raw HTML) into a Site.
package generation
