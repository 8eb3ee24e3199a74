package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/phrazzld/sitegen/internal/generation"
	"github.com/phrazzld/sitegen/internal/site"
)

// SiteWriter persists a generated site. *site.Writer satisfies it.
type SiteWriter interface {
	// Write stores the site, clearing the output directory first when clearFirst is set
	Write(s *generation.Site, clearFirst bool) (*site.Manifest, error)
}

// Generation records one successful prompt-to-site run.
type Generation struct {
	ID         uuid.UUID   `json:"id"`
	Prompt     string      `json:"prompt"`
	Dir        string      `json:"dir"`
	Files      []site.File `json:"files"`
	DurationMS int64       `json:"duration_ms"`
	CreatedAt  time.Time   `json:"created_at"`
}

// SiteService provides website generation operations
type SiteService interface {
	// Generate turns prompt into a site on disk and returns the recorded generation
	Generate(ctx context.Context, prompt string) (*Generation, error)

	// Latest returns the most recent successful generation
	Latest(ctx context.Context) (*Generation, error)
}

// Options tunes a SiteService.
type Options struct {
	// MaxConcurrent bounds simultaneous generations; values below 1 mean 1
	MaxConcurrent int
	// MaxPromptLength is the maximum prompt length in characters; 0 disables the check
	MaxPromptLength int
	// ClearBeforeWrite empties the output directory before each write
	ClearBeforeWrite bool
}

// siteServiceImpl implements the SiteService interface
type siteServiceImpl struct {
	generator generation.Generator
	writer    SiteWriter
	opts      Options
	logger    *slog.Logger
	slots     chan struct{}
	now       func() time.Time

	mu     sync.RWMutex
	latest *Generation
}

// NewSiteService creates a new SiteService
func NewSiteService(
	generator generation.Generator,
	writer SiteWriter,
	opts Options,
	logger *slog.Logger,
) (SiteService, error) {
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if writer == nil {
		return nil, errors.New("writer cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}

	return &siteServiceImpl{
		generator: generator,
		writer:    writer,
		opts:      opts,
		logger:    logger.With(slog.String("component", "site_service")),
		slots:     make(chan struct{}, opts.MaxConcurrent),
		now:       time.Now,
	}, nil
}

// Generate implements SiteService.Generate
func (s *siteServiceImpl) Generate(ctx context.Context, prompt string) (*Generation, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if s.opts.MaxPromptLength > 0 && utf8.RuneCountInString(prompt) > s.opts.MaxPromptLength {
		return nil, fmt.Errorf("%w: %d characters allowed", ErrPromptTooLong, s.opts.MaxPromptLength)
	}

	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	default:
		s.logger.WarnContext(ctx, "Rejecting generation, all slots busy",
			slog.Int("max_concurrent", s.opts.MaxConcurrent))
		return nil, ErrGenerationInProgress
	}

	id := uuid.New()
	log := s.logger.With(slog.String("generation_id", id.String()))
	log.InfoContext(ctx, "Starting site generation",
		slog.String("prompt_preview", generation.Preview(prompt, 80)))

	started := s.now()
	generated, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.ErrorContext(ctx, "Site generation failed", slog.String("error", err.Error()))
		return nil, NewSiteServiceError("generate", "generator failed", err)
	}
	if generated.IsEmpty() {
		log.ErrorContext(ctx, "Generator returned an empty site")
		return nil, NewSiteServiceError("generate", "generator returned no content",
			generation.ErrInvalidResponse)
	}

	generated.Normalize()

	manifest, err := s.writer.Write(generated, s.opts.ClearBeforeWrite)
	if err != nil {
		log.ErrorContext(ctx, "Failed to write site", slog.String("error", err.Error()))
		return nil, NewSiteServiceError("write_site", "failed to write site files", err)
	}

	result := &Generation{
		ID:         id,
		Prompt:     prompt,
		Dir:        manifest.Dir,
		Files:      manifest.Files,
		DurationMS: s.now().Sub(started).Milliseconds(),
		CreatedAt:  started.UTC(),
	}

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	log.InfoContext(ctx, "Site generation completed",
		slog.Int64("duration_ms", result.DurationMS),
		slog.String("dir", result.Dir))

	return result, nil
}

// Latest implements SiteService.Latest
func (s *siteServiceImpl) Latest(_ context.Context) (*Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, ErrNoGeneration
	}
	latest := *s.latest
	latest.Files = append([]site.File(nil), s.latest.Files...)
	return &latest, nil
}
