// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/skillfade/internal/domain/model"
)

// History window bounds for GET /skills/{id}/history.
const (
	defaultHistoryDays = 30
	maxHistoryDays     = 365
)

// SkillDependencies defines the interface for skill operations.
type SkillDependencies interface {
	CreateSkill(ctx context.Context, userID, name string, decayRate, targetFreshness *float64) (*model.Skill, error)
	GetSkill(ctx context.Context, skillID string) (*model.Skill, error)
	ArchiveSkill(ctx context.Context, skillID string) error

	Freshness(ctx context.Context, skillID string, asOf *time.Time) (FreshnessReport, error)
	History(ctx context.Context, skillID string, days int) ([]model.HistoryPoint, error)
	Records(ctx context.Context, skillID string) (RecordsReport, error)
	Balance(ctx context.Context, skillID string) (BalanceReport, error)
}

// SkillsHandler handles skill requests.
type SkillsHandler struct {
	deps SkillDependencies
}

// NewSkillsHandler creates a new skills handler.
func NewSkillsHandler(deps SkillDependencies) *SkillsHandler {
	return &SkillsHandler{deps: deps}
}

type skillRequest struct {
	UserID          string   `json:"user_id"`
	Name            string   `json:"name"`
	DecayRate       *float64 `json:"decay_rate,omitempty"`
	TargetFreshness *float64 `json:"target_freshness,omitempty"`
}

func (s skillRequest) validate() error {
	switch {
	case strings.TrimSpace(s.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(s.Name) == "":
		return errors.New("missing name")
	}
	if s.DecayRate != nil && !model.ValidDecayRate(*s.DecayRate) {
		return fmt.Errorf("decay_rate must be in (%g, %g]", model.MinDecayRate, model.MaxDecayRate)
	}
	if s.TargetFreshness != nil && (*s.TargetFreshness < 0 || *s.TargetFreshness > 100) {
		return errors.New("target_freshness must be in [0, 100]")
	}
	return nil
}

type skillResponse struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	Name            string   `json:"name"`
	CreatedAt       string   `json:"created_at"`
	DecayRate       float64  `json:"decay_rate"`
	TargetFreshness *float64 `json:"target_freshness,omitempty"`
}

// HandlePostSkill handles POST /skills requests.
func (h *SkillsHandler) HandlePostSkill(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_skill"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req skillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	skill, err := h.deps.CreateSkill(r.Context(), req.UserID, req.Name, req.DecayRate, req.TargetFreshness)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, skillResponse{
		ID:              skill.ID,
		UserID:          skill.UserID,
		Name:            skill.Name,
		CreatedAt:       skill.CreatedAt.Format("2006-01-02"),
		DecayRate:       skill.DecayRate,
		TargetFreshness: skill.TargetFreshness,
	})
}

// HandleSkillSubtree routes /skills/{id}/... requests.
func (h *SkillsHandler) HandleSkillSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/skills/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	skillID := parts[0]

	switch parts[1] {
	case "freshness":
		h.handleFreshness(w, r, skillID)
	case "history":
		h.handleHistory(w, r, skillID)
	case "records":
		h.handleRecords(w, r, skillID)
	case "balance":
		h.handleBalance(w, r, skillID)
	case "archive":
		h.handleArchive(w, r, skillID)
	default:
		http.NotFound(w, r)
	}
}

// handleFreshness handles GET /skills/{id}/freshness?as_of=YYYY-MM-DD.
func (h *SkillsHandler) handleFreshness(w http.ResponseWriter, r *http.Request, skillID string) {
	const op = "api.get_freshness"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	var asOf *time.Time
	if s := r.URL.Query().Get("as_of"); s != "" {
		day, err := parseDay(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("invalid as_of; must be YYYY-MM-DD")))
			return
		}
		day = model.Midnight(day)
		asOf = &day
	}

	report, err := h.deps.Freshness(r.Context(), skillID, asOf)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleHistory handles GET /skills/{id}/history?days=N.
func (h *SkillsHandler) handleHistory(w http.ResponseWriter, r *http.Request, skillID string) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	days := defaultHistoryDays
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxHistoryDays {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, fmt.Errorf("days must be in [1, %d]", maxHistoryDays)))
			return
		}
		days = n
	}

	points, err := h.deps.History(r.Context(), skillID, days)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// handleRecords handles GET /skills/{id}/records.
func (h *SkillsHandler) handleRecords(w http.ResponseWriter, r *http.Request, skillID string) {
	const op = "api.get_records"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.Records(r.Context(), skillID)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleBalance handles GET /skills/{id}/balance.
func (h *SkillsHandler) handleBalance(w http.ResponseWriter, r *http.Request, skillID string) {
	const op = "api.get_balance"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.Balance(r.Context(), skillID)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleArchive handles POST /skills/{id}/archive.
func (h *SkillsHandler) handleArchive(w http.ResponseWriter, r *http.Request, skillID string) {
	const op = "api.archive_skill"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.ArchiveSkill(r.Context(), skillID); err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived", "skill_id": skillID})
}
