// Package gemini provides an implementation of the generation.Generator
// interface that uses Google's Gemini API to generate websites from prompts.
//
// This package is an infrastructure adapter: it connects the application's
// generation boundary to the external Gemini service without exposing the
// details of that service to the rest of the application.
//
// Key components:
//
// 1. Generator:
//   - Implements the generation.Generator interface
//   - Handles communication with the Gemini API through google.golang.org/genai
//
// 2. Prompt Management:
//   - Uses an embedded default prompt template, or one loaded from a file
//   - Substitutes the user's prompt into the template
//
// 3. Response Processing:
//   - Requests JSON output and concatenates the candidate's text parts
//   - Hands the text to generation.ParseOutput, which tolerates fenced JSON,
//     section markers and raw HTML
//
// 4. Error Handling:
//   - Retries transient errors with exponential backoff and jitter
//   - Treats safety blocks, unparseable replies and client errors as permanent
//   - Redacts API keys from logged errors
package gemini
