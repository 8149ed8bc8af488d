package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gridfall/desktop-organizer/internal/domain"
	"github.com/gridfall/desktop-organizer/internal/engine"
	"github.com/gridfall/desktop-organizer/internal/port"
	"github.com/gridfall/desktop-organizer/internal/snapshot"
	"go.uber.org/zap"
)

// RuleGenerator requests a rule set from the external rule service.
type RuleGenerator interface {
	Generate(ctx context.Context, snap *snapshot.DesktopSnapshot, corrections []domain.Correction) (*domain.RuleSet, error)
}

// defaultCorrectionLimit applies when no correction limit is configured.
const defaultCorrectionLimit = 50

// APIHandler serves the /api/v1 endpoints as thin glue over the engine.
type APIHandler struct {
	engine          *engine.Engine
	taker           *snapshot.Taker
	generator       RuleGenerator
	corrections     port.CorrectionRepository
	correctionLimit int
	logger          *zap.Logger
}

// NewAPIHandler creates a new APIHandler. A non-positive correctionLimit
// falls back to the default.
func NewAPIHandler(eng *engine.Engine, taker *snapshot.Taker, generator RuleGenerator, corrections port.CorrectionRepository, correctionLimit int, logger *zap.Logger) *APIHandler {
	if correctionLimit <= 0 {
		correctionLimit = defaultCorrectionLimit
	}
	return &APIHandler{
		engine:          eng,
		taker:           taker,
		generator:       generator,
		corrections:     corrections,
		correctionLimit: correctionLimit,
		logger:          logger,
	}
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// HandleStats returns the current pipeline statistics.
func (h *APIHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.engine.Stats())
}

// HandleGetRules returns the active rule set.
func (h *APIHandler) HandleGetRules(w http.ResponseWriter, r *http.Request) {
	rs := h.engine.ActiveRules()
	if rs == nil {
		h.writeError(w, http.StatusNotFound, "no rule set loaded")
		return
	}
	h.writeJSON(w, http.StatusOK, rs)
}

// HandleLoadRules accepts a rule set document and makes it active.
func (h *APIHandler) HandleLoadRules(w http.ResponseWriter, r *http.Request) {
	var rs domain.RuleSet
	if err := json.NewDecoder(r.Body).Decode(&rs); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid rule set document: "+err.Error())
		return
	}

	if err := h.engine.LoadRules(&rs); err != nil {
		switch {
		case errors.Is(err, domain.ErrNoRulesLoaded):
			h.writeError(w, http.StatusUnprocessableEntity, "no valid rules in document")
		case errors.Is(err, domain.ErrInvalidInput):
			h.writeError(w, http.StatusBadRequest, "invalid rule set")
		default:
			h.logger.Error("rule load failed", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "failed to load rules")
		}
		return
	}

	active := h.engine.ActiveRules()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"version": active.Version,
		"rules":   len(active.Rules),
	})
}

// HandleGenerateRules snapshots the desktop, asks the rule service for a
// fresh rule set, and activates it.
func (h *APIHandler) HandleGenerateRules(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		h.writeError(w, http.StatusNotImplemented, "no rule service configured")
		return
	}

	snap, err := h.taker.Take()
	if err != nil {
		h.logger.Error("snapshot failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "snapshot failed: "+err.Error())
		return
	}

	corrections, err := h.corrections.RecentCorrections(h.correctionLimit)
	if err != nil {
		h.logger.Warn("failed to load corrections", zap.Error(err))
	}

	rs, err := h.generator.Generate(r.Context(), snap, corrections)
	if err != nil {
		h.logger.Error("rule generation failed", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "rule generation failed: "+err.Error())
		return
	}

	if err := h.engine.LoadRules(rs); err != nil {
		if errors.Is(err, domain.ErrNoRulesLoaded) {
			h.writeError(w, http.StatusUnprocessableEntity, "generated rule set has no valid rules")
			return
		}
		h.logger.Error("failed to load generated rules", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to load generated rules")
		return
	}

	active := h.engine.ActiveRules()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"version":    active.Version,
		"rules":      len(active.Rules),
		"confidence": active.ConfidenceScore,
	})
}

// HandleOrganize runs a synchronous bulk organize pass.
func (h *APIHandler) HandleOrganize(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.OrganizeAll(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoRulesLoaded) {
			h.writeError(w, http.StatusConflict, "no rule set loaded")
			return
		}
		h.logger.Error("organize failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "organize failed: "+err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleSnapshot returns a fresh desktop snapshot.
func (h *APIHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.taker.Take()
	if err != nil {
		h.logger.Error("snapshot failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "snapshot failed: "+err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

// correctionRequest is the POST /corrections payload.
type correctionRequest struct {
	Filename   string `json:"filename"`
	FromRegion string `json:"from_region"`
	ToRegion   string `json:"to_region"`
}

// HandleRecordCorrection records a user's icon move.
func (h *APIHandler) HandleRecordCorrection(w http.ResponseWriter, r *http.Request) {
	var req correctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid correction: "+err.Error())
		return
	}

	if err := h.engine.RecordCorrection(req.Filename, req.FromRegion, req.ToRegion); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.writeError(w, http.StatusBadRequest, "filename and to_region are required")
		case errors.Is(err, domain.ErrRegionNotFound):
			h.writeError(w, http.StatusUnprocessableEntity, "unknown region: "+req.ToRegion)
		default:
			h.logger.Error("correction failed", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "failed to record correction")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}
