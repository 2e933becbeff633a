package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/veltaplan/schedule-assist/internal/api/respond"
	"github.com/veltaplan/schedule-assist/internal/api/validate"
	"github.com/veltaplan/schedule-assist/internal/model"
)

// Publisher enqueues a planning request for the worker loop.
type Publisher interface {
	Publish(ctx context.Context, msg model.ScheduleAssistMessage) error
}

// PlanHandler accepts planning requests over HTTP and puts them on the queue.
type PlanHandler struct {
	pub Publisher
	log zerolog.Logger
}

func NewPlanHandler(pub Publisher, log zerolog.Logger) *PlanHandler {
	return &PlanHandler{pub: pub, log: log.With().Str("component", "plan-handler").Logger()}
}

// EnqueuePlan handles POST /v1/assist/plan.
func (h *PlanHandler) EnqueuePlan(w http.ResponseWriter, r *http.Request) {
	var msg model.ScheduleAssistMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.NonEmpty("userId", msg.UserID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.Window(msg.WindowStartDate, msg.WindowEndDate); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.Timezone(msg.Timezone); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.pub.Publish(r.Context(), msg); err != nil {
		h.log.Error().Stack().Err(err).Str("hostId", msg.UserID).Msg("enqueue failed")
		respond.WriteInternalError(w, "failed to enqueue planning request")
		return
	}
	respond.WriteJSON(w, http.StatusAccepted, map[string]string{
		"status": "queued",
		"userId": msg.UserID,
	})
}
