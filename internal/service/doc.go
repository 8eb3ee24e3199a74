// Package service contains the application use case: turning a prompt into a
// website on disk.
//
// SiteService validates the prompt, bounds how many generations run at once,
// delegates to a generation.Generator, and hands the normalized result to a
// SiteWriter. It remembers the most recent successful generation so the API
// can report what is currently being served.
//
// Error handling follows the same rules everywhere in the service layer:
//  1. Expected conditions are returned as sentinel errors (ErrEmptyPrompt,
//     ErrPromptTooLong, ErrGenerationInProgress, ErrNoGeneration)
//  2. Generator errors keep their generation sentinel in the chain
//  3. Unexpected failures are wrapped in SiteServiceError with the operation name
//  4. The API layer maps these errors to HTTP status codes
package service
