package webapi

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"fiscalcli/internal/config"
	apierrors "fiscalcli/internal/errors"
	"fiscalcli/internal/infrastructure"
	"fiscalcli/internal/restructuring"
)

type handler struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *Metrics
	validate *validator.Validate
}

func newHandler(cfg *config.Config, logger *slog.Logger, metrics *Metrics) *handler {
	return &handler{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		validate: validator.New(),
	}
}

type healthResponse struct {
	Status             string    `json:"status"`
	Timestamp          time.Time `json:"timestamp"`
	ArtifactsAvailable int       `json:"artifacts_available"`
	ArtifactsExpected  int       `json:"artifacts_expected"`
}

// Health reports service liveness and how many pipeline artifacts are
// present on disk.
func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	available := 0
	for _, name := range config.ArtifactFiles {
		if _, err := os.Stat(h.cfg.Paths.ArtifactPath(name)); err == nil {
			available++
		}
	}
	render.JSON(w, r, healthResponse{
		Status:             "healthy",
		Timestamp:          time.Now().UTC(),
		ArtifactsAvailable: available,
		ArtifactsExpected:  len(config.ArtifactFiles),
	})
}

type artifactInfo struct {
	Name     string     `json:"name"`
	Exists   bool       `json:"exists"`
	SizeB    int64      `json:"size_bytes"`
	Modified *time.Time `json:"modified,omitempty"`
}

// ListArtifacts enumerates the known pipeline artifacts and their
// on-disk state.
func (h *handler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	infos := make([]artifactInfo, 0, len(config.ArtifactFiles))
	for _, name := range config.ArtifactFiles {
		info := artifactInfo{Name: name}
		if stat, err := os.Stat(h.cfg.Paths.ArtifactPath(name)); err == nil {
			info.Exists = true
			info.SizeB = stat.Size()
			mod := stat.ModTime().UTC()
			info.Modified = &mod
		}
		infos = append(infos, info)
	}
	render.JSON(w, r, map[string]interface{}{"artifacts": infos})
}

// GetArtifact serves a named pipeline artifact file.
func (h *handler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !config.IsArtifact(name) {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.NotFoundError("artifact "+name)))
		return
	}

	path := h.cfg.Paths.ArtifactPath(name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.ArtifactNotFoundError(name)))
			return
		}
		infrastructure.LoggerFromContext(r.Context()).Error("artifact stat failed",
			"artifact", name,
			"error", err)
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.FileSystemError("artifact read", err)))
		return
	}

	h.metrics.artifactReads.WithLabelValues(name).Inc()
	if strings.HasSuffix(name, ".json") {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/csv")
	}
	http.ServeFile(w, r, filepath.Clean(path))
}

type simulateResponse struct {
	Scenario restructuring.Scenario `json:"scenario"`
	Impact   restructuring.Impact   `json:"impact"`
}

// Simulate evaluates a debt restructuring scenario.
func (h *handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var scenario restructuring.Scenario
	if err := render.DecodeJSON(r.Body, &scenario); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	if err := h.validate.Struct(scenario); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(validationError(err)))
		return
	}

	impact := restructuring.Evaluate(scenario)
	h.metrics.simulationsRun.Inc()
	h.logger.InfoContext(r.Context(), "scenario evaluated",
		"current_debt", scenario.CurrentDebt,
		"haircut_pct", scenario.HaircutPct,
		"fiscal_space_freed", impact.FiscalSpaceFreed)

	render.JSON(w, r, simulateResponse{Scenario: scenario, Impact: impact})
}

type opportunityCostRequest struct {
	AmountUSD float64 `json:"amount_usd" validate:"required,gt=0"`
	Unit      string  `json:"unit"`
}

type opportunityCostItem struct {
	Unit     string  `json:"unit"`
	UnitCost float64 `json:"unit_cost_usd"`
	Count    int     `json:"count"`
}

// OpportunityCost translates an amount of freed fiscal space into
// development-equivalent units. Without a unit in the request, all
// known units are returned.
func (h *handler) OpportunityCost(w http.ResponseWriter, r *http.Request) {
	var req opportunityCostRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(validationError(err)))
		return
	}

	units := restructuring.OpportunityCostUnits()
	if req.Unit != "" {
		units = []string{req.Unit}
	}

	items := make([]opportunityCostItem, 0, len(units))
	for _, unit := range units {
		count, err := restructuring.OpportunityCost(req.AmountUSD, unit)
		if err != nil {
			render.Render(w, r, apierrors.NewErrorResponse(
				apierrors.ErrValidation("unit", err.Error())))
			return
		}
		cost, _ := restructuring.UnitCost(unit)
		items = append(items, opportunityCostItem{Unit: unit, UnitCost: cost, Count: count})
	}

	render.JSON(w, r, map[string]interface{}{
		"amount_usd":        req.AmountUSD,
		"opportunity_costs": items,
	})
}

// validationError converts validator.ValidationErrors into the API
// error shape, one entry per failed field.
func validationError(err error) *apierrors.APIError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.ErrValidationFailed
	}
	fields := make([]apierrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: "failed constraint: " + fe.Tag(),
		})
	}
	return apierrors.NewValidationErrors(fields)
}
