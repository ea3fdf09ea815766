package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignitelabs/sparkd/internal/spark"
)

// SubscriptionService manages spark subscriber membership.
type SubscriptionService interface {
	Subscribe(ctx context.Context, sparkID, userID uuid.UUID) error
	Unsubscribe(ctx context.Context, sparkID, userID uuid.UUID) error
}

// SparksHandler handles spark subscription requests.
type SparksHandler struct {
	subs SubscriptionService
}

// NewSparksHandler creates a new SparksHandler.
func NewSparksHandler(subs SubscriptionService) *SparksHandler {
	return &SparksHandler{subs: subs}
}

// Subscribe adds a user to a spark's subscriber set.
func (h *SparksHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	sparkID, userID, ok := subscriptionIDs(w, r)
	if !ok {
		return
	}

	if err := h.subs.Subscribe(r.Context(), sparkID, userID); err != nil {
		writeSubscriptionError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unsubscribe removes a user from a spark's subscriber set.
func (h *SparksHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	sparkID, userID, ok := subscriptionIDs(w, r)
	if !ok {
		return
	}

	if err := h.subs.Unsubscribe(r.Context(), sparkID, userID); err != nil {
		writeSubscriptionError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func subscriptionIDs(w http.ResponseWriter, r *http.Request) (sparkID, userID uuid.UUID, ok bool) {
	sparkID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid spark id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	return sparkID, userID, true
}

func writeSubscriptionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, spark.ErrSparkNotFound) || errors.Is(err, spark.ErrUserNotFound) {
		http.NotFound(w, r)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
