package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/giftwise/internal/api/shared"
	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/platform/logger"
	"github.com/phrazzld/giftwise/internal/service"
)

// IdeaHandler handles gift idea HTTP requests.
type IdeaHandler struct {
	ideaService service.IdeaService
	logger      *slog.Logger
}

// NewIdeaHandler creates a new IdeaHandler.
func NewIdeaHandler(ideaService service.IdeaService, logger *slog.Logger) *IdeaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdeaHandler{
		ideaService: ideaService,
		logger:      logger.With("component", "idea_handler"),
	}
}

// GenerateIdeas handles POST /api/ideas requests.
func (h *IdeaHandler) GenerateIdeas(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req IdeaRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	req.normalize()

	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if req.Provider == "" {
		req.Provider = h.ideaService.DefaultProvider().String()
	}

	ideaReq, err := domain.NewIdeaRequest(req.Age, req.Tastes, req.APIKey, req.Provider)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.ideaService.Generate(r.Context(), ideaReq)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("ideas generated", "provider", result.Provider, "idea_count", len(result.Ideas))
	shared.RespondWithJSON(w, r, http.StatusOK, ideaToResponse(result))
}

// ListProviders handles GET /api/providers requests.
func (h *IdeaHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers := h.ideaService.Providers()
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.String())
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ProvidersResponse{
		Providers: names,
		Default:   h.ideaService.DefaultProvider().String(),
	})
}

// Health handles GET /health requests.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
