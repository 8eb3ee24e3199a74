package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/sitegen/internal/config"
	"github.com/phrazzld/sitegen/internal/generation"
	"github.com/phrazzld/sitegen/internal/redact"
	"google.golang.org/genai"
)

const (
	defaultMaxRetries     = 2
	defaultRequestTimeout = 60 * time.Second
	responseMIMEType      = "application/json"
)

// contentGenerator is the slice of the genai client the generator uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator implements the generation.Generator interface using
// Google's Gemini API to generate websites from prompts.
type Generator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// client performs the generateContent calls
	client contentGenerator

	// model is the name of the Gemini model to use
	model string
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator backed by a genai client.
//
// Parameters:
//   - ctx: Context for client initialization
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name, and other settings
//
// Returns:
//   - A properly initialized Generator or an error wrapping
//     generation.ErrInvalidConfig if initialization fails
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, redact.Error(err))
	}

	return newGenerator(logger, cfg, client.Models)
}

// newGenerator wires a Generator around any contentGenerator.
func newGenerator(logger *slog.Logger, cfg config.LLMConfig, client contentGenerator) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", generation.ErrInvalidConfig)
	}

	tmpl, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	return &Generator{
		logger:         logger,
		config:         cfg,
		promptTemplate: tmpl,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// Generate renders the prompt, calls Gemini with retries and parses the reply
// into a Site.
func (g *Generator) Generate(ctx context.Context, prompt string) (*generation.Site, error) {
	fullPrompt, err := renderPrompt(g.promptTemplate, prompt)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "Prompt generated successfully",
		"prompt_length", len(fullPrompt),
		"template_name", g.promptTemplate.Name())

	text, err := g.callGeminiWithRetry(ctx, fullPrompt)
	if err != nil {
		return nil, err
	}

	site, err := generation.ParseOutput(text)
	if err != nil {
		g.logger.WarnContext(ctx, "Unable to parse model output",
			"error", err,
			"output_preview", generation.Preview(text, 300))
		return nil, err
	}

	g.logger.InfoContext(ctx, "Site generated",
		"model", g.model,
		"html_length", len(site.HTML),
		"css_length", len(site.CSS),
		"js_length", len(site.JS))

	return site, nil
}

// callGeminiWithRetry makes a call to the Gemini API with exponential backoff retry logic.
//
// It attempts the call up to MaxRetries+1 times, waiting
// RetryDelaySeconds * 2^attempt * jitter(0.5..1.0) between attempts for
// transient errors. Permanent errors are returned immediately.
func (g *Generator) callGeminiWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "Invalid max retries value, using default",
			"max_retries", defaultMaxRetries)
		maxRetries = defaultMaxRetries
	}
	baseDelay := time.Duration(max(g.config.RetryDelaySeconds, 0)) * time.Second

	// Local rng per call; rand.Rand is not safe for concurrent use.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "Making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1,
			"model", g.model)

		text, err := g.callOnce(ctx, prompt)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return text, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", redact.Error(err))

		if isPermanent(err) {
			g.logger.WarnContext(ctx, "Permanent error occurred, not retrying")
			if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
				return "", err
			}
			return "", fmt.Errorf("%w: %s", generation.ErrGenerationFailed, redact.Error(err))
		}

		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}

		if attempt >= maxRetries {
			g.logger.WarnContext(ctx, "Maximum retry attempts reached", "max_retries", maxRetries)
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %s",
				generation.ErrTransientFailure, maxRetries, redact.Error(err))
		}

		delay := backoff(rng, baseDelay, attempt)
		g.logger.InfoContext(ctx, "Retrying after delay",
			"attempt", attemptNum,
			"delay_seconds", delay.Seconds())

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			g.logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// backoff returns base * 2^attempt scaled by a jitter factor in [0.5, 1.0).
func backoff(rng *rand.Rand, base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	jitter := 0.5 + rng.Float64()*0.5
	return time.Duration(float64(base) * math.Pow(2, float64(attempt)) * jitter)
}

func (g *Generator) callOnce(ctx context.Context, prompt string) (string, error) {
	timeout := time.Duration(g.config.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.config.Temperature),
		MaxOutputTokens:  int32(g.config.MaxOutputTokens),
		ResponseMIMEType: responseMIMEType,
	}

	resp, err := g.client.GenerateContent(callCtx, g.model, contents, cfg)
	if err != nil {
		return "", err
	}
	return extractText(resp)
}

// extractText concatenates the non-thought text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)",
				generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: response contained no text", generation.ErrInvalidResponse)
	}
	return sb.String(), nil
}

// isPermanent reports whether retrying err cannot help.
func isPermanent(err error) bool {
	if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
		return true
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code >= http.StatusBadRequest &&
			apiErr.Code < http.StatusInternalServerError &&
			apiErr.Code != http.StatusRequestTimeout &&
			apiErr.Code != http.StatusTooManyRequests
	}
	return false
}
