// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/skillfade/internal/adapters/mq/queue"
	"github.com/okian/skillfade/internal/domain/dedupe"
	"github.com/okian/skillfade/internal/domain/model"
	"github.com/okian/skillfade/pkg/metrics"
)

// EventDependencies defines the interface for event ingestion dependencies.
type EventDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, s queue.Submission) bool
	GetSkill(ctx context.Context, skillID string) (*model.Skill, error)
}

// EventsHandler handles event submissions.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventRequest mirrors the wire schema for POST /events.
type eventRequest struct {
	EventID string `json:"event_id,omitempty"`
	SkillID string `json:"skill_id"`
	Type    string `json:"type"`
	Date    string `json:"date"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.SkillID) == "":
		return errors.New("missing skill_id")
	case strings.TrimSpace(e.Type) == "":
		return errors.New("missing type")
	case strings.TrimSpace(e.Date) == "":
		return errors.New("missing date")
	}
	if _, ok := model.KindOfType(e.Type); !ok {
		return errors.New("unknown event type")
	}
	if _, err := parseDay(e.Date); err != nil {
		return errors.New("invalid date; must be YYYY-MM-DD")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
}

// HandlePostEvent handles POST /events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		metrics.RecordEventRejected()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if _, err := h.deps.GetSkill(r.Context(), req.SkillID); err != nil {
		writeStoreError(w, op, err)
		return
	}

	// Server-assigned ID when the client sent none; such events can never
	// be duplicates.
	if strings.TrimSpace(req.EventID) == "" {
		req.EventID = uuid.NewString()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		metrics.RecordEventDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", EventID: req.EventID, Duplicate: true})
		return
	}

	kind, _ := model.KindOfType(req.Type)
	day, _ := parseDay(req.Date)
	sub := queue.Submission{
		EventID: req.EventID,
		SkillID: req.SkillID,
		Kind:    kind,
		Date:    model.Midnight(day),
		Type:    req.Type,
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), sub); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", EventID: req.EventID, Duplicate: false})
}
