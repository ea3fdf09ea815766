package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignitelabs/sparkd/internal/dispatcher"
	"github.com/ignitelabs/sparkd/internal/logger"
	"github.com/ignitelabs/sparkd/internal/models"
	"github.com/ignitelabs/sparkd/internal/repository"
	"github.com/ignitelabs/sparkd/internal/teaser"
)

// TeaserService defines the orchestrator operations the API exposes.
type TeaserService interface {
	CreateTeasers(ctx context.Context, sparkID uuid.UUID, numTeasers int, description, style string) ([]models.Teaser, error)
	CreateTeaser(ctx context.Context, sparkID uuid.UUID, content string, scheduledDate time.Time) (*models.Teaser, error)
	GetTeaser(ctx context.Context, id uuid.UUID) (*models.Teaser, error)
	ListTeasers(ctx context.Context, filter repository.TeaserFilter, page, limit int) ([]models.Teaser, error)
	UpdateTeaser(ctx context.Context, id uuid.UUID, upd repository.TeaserUpdate) (*models.Teaser, error)
	DeleteTeaser(ctx context.Context, id uuid.UUID) error
}

// DispatchRunner triggers one dispatch tick on demand.
type DispatchRunner interface {
	Run(ctx context.Context) (*dispatcher.RunResult, error)
}

// TeasersHandler handles teaser-related requests.
type TeasersHandler struct {
	service    TeaserService
	runner     DispatchRunner
	genTimeout time.Duration
	log        *logger.Logger
}

// NewTeasersHandler creates a new TeasersHandler. genTimeout bounds the
// whole multi-teaser generation request, since it makes N external calls.
func NewTeasersHandler(service TeaserService, runner DispatchRunner, genTimeout time.Duration, log *logger.Logger) *TeasersHandler {
	return &TeasersHandler{
		service:    service,
		runner:     runner,
		genTimeout: genTimeout,
		log:        log,
	}
}

// CreateBatch generates and schedules N teasers for a spark.
func (h *TeasersHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	sparkID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid spark id", http.StatusBadRequest)
		return
	}

	var payload struct {
		NumTeasers  int    `json:"num_teasers"`
		Description string `json:"description"`
		Style       string `json:"style"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if h.genTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.genTimeout)
		defer cancel()
	}

	created, err := h.service.CreateTeasers(ctx, sparkID, payload.NumTeasers, payload.Description, payload.Style)
	if err != nil {
		// teasers persisted before the failure are reported alongside it
		h.writeCreateError(w, err, created)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// Create persists a single user-authored teaser.
func (h *TeasersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SparkID       uuid.UUID `json:"spark_id"`
		Content       string    `json:"content"`
		ScheduledDate time.Time `json:"scheduled_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateTeaser(r.Context(), payload.SparkID, payload.Content, payload.ScheduledDate)
	if err != nil {
		h.writeCreateError(w, err, nil)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetByID returns one teaser.
func (h *TeasersHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid teaser id", http.StatusBadRequest)
		return
	}

	t, err := h.service.GetTeaser(r.Context(), id)
	if err != nil {
		if errors.Is(err, teaser.ErrTeaserNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// List returns a paginated list of teasers with optional filters.
func (h *TeasersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}

	var filter repository.TeaserFilter
	if v := r.URL.Query().Get("spark_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid spark_id filter", http.StatusBadRequest)
			return
		}
		filter.SparkID = &id
	}
	if v := r.URL.Query().Get("sent"); v != "" {
		sent, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "invalid sent filter", http.StatusBadRequest)
			return
		}
		filter.Sent = &sent
	}

	teasers, err := h.service.ListTeasers(r.Context(), filter, page, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, teasers)
}

// Update changes content and/or schedule of an unsent teaser.
func (h *TeasersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid teaser id", http.StatusBadRequest)
		return
	}

	var payload struct {
		Content       *string    `json:"content"`
		ScheduledDate *time.Time `json:"scheduled_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateTeaser(r.Context(), id, repository.TeaserUpdate{
		Content:       payload.Content,
		ScheduledDate: payload.ScheduledDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, teaser.ErrTeaserNotFound):
			http.NotFound(w, r)
		case errors.Is(err, teaser.ErrTeaserAlreadySent), errors.Is(err, teaser.ErrEmptyContent):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a teaser.
func (h *TeasersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid teaser id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteTeaser(r.Context(), id); err != nil {
		if errors.Is(err, teaser.ErrTeaserNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RunDispatch triggers one dispatch tick.
func (h *TeasersHandler) RunDispatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.Run(r.Context())
	if err != nil {
		if errors.Is(err, dispatcher.ErrRunInProgress) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// writeCreateError maps creation-flow errors to status codes. Partial
// batches are included so the caller can see what already exists.
func (h *TeasersHandler) writeCreateError(w http.ResponseWriter, err error, created []models.Teaser) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, teaser.ErrSparkNotFound), errors.Is(err, teaser.ErrCategoryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, teaser.ErrInvalidTeaserCount),
		errors.Is(err, teaser.ErrInvalidScheduleWindow),
		errors.Is(err, teaser.ErrEmptyContent):
		status = http.StatusBadRequest
	case errors.Is(err, teaser.ErrGenerationFailed):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusGatewayTimeout
	}

	respondJSON(w, status, map[string]any{
		"error":   err.Error(),
		"created": created,
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		_ = err // client disconnected
	}
}
