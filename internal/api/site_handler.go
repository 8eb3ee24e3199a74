package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/sitegen/internal/api/shared"
	"github.com/phrazzld/sitegen/internal/service"
	"github.com/phrazzld/sitegen/internal/site"
)

// GenerateRequest represents the request body for generating a site
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required,max=20000"`
}

// GenerationResponse represents the response data for a generation
type GenerationResponse struct {
	ID         string      `json:"id"`
	Prompt     string      `json:"prompt"`
	Files      []site.File `json:"files"`
	DurationMS int64       `json:"duration_ms"`
	CreatedAt  time.Time   `json:"created_at"`
	URL        string      `json:"url"`
}

// SiteHandler handles site generation HTTP requests
type SiteHandler struct {
	siteService service.SiteService
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(siteService service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

// Generate handles POST /api/generate requests
func (h *SiteHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	gen, err := h.siteService.Generate(r.Context(), req.Prompt)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, generationToResponse(gen))
}

// Latest handles GET /api/generations/latest requests
func (h *SiteHandler) Latest(w http.ResponseWriter, r *http.Request) {
	gen, err := h.siteService.Latest(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, generationToResponse(gen))
}

// generationToResponse converts a service generation to its API response
func generationToResponse(gen *service.Generation) GenerationResponse {
	return GenerationResponse{
		ID:         gen.ID.String(),
		Prompt:     gen.Prompt,
		Files:      gen.Files,
		DurationMS: gen.DurationMS,
		CreatedAt:  gen.CreatedAt,
		URL:        "/",
	}
}
