package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignitelabs/sparkd/internal/logger"
	"github.com/ignitelabs/sparkd/internal/spark"
)

func newSubsRouter(subs SubscriptionService) http.Handler {
	teasers := NewTeasersHandler(&mockService{}, &mockRunner{}, time.Minute, logger.Get())
	srv := NewServer(&Config{Port: 0}, teasers, NewSparksHandler(subs))
	return srv.Router()
}

func TestSubscribe(t *testing.T) {
	sparkID := uuid.New()
	userID := uuid.New()

	subs := &mockSubs{
		subscribeFunc: func(_ context.Context, gotSpark, gotUser uuid.UUID) error {
			assert.Equal(t, sparkID, gotSpark)
			assert.Equal(t, userID, gotUser)
			return nil
		},
	}
	router := newSubsRouter(subs)

	rec := doRequest(t, router, http.MethodPut,
		"/api/v1/sparks/"+sparkID.String()+"/subscribers/"+userID.String(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSubscribe_NotFound(t *testing.T) {
	subs := &mockSubs{
		subscribeFunc: func(context.Context, uuid.UUID, uuid.UUID) error {
			return spark.ErrSparkNotFound
		},
	}
	router := newSubsRouter(subs)

	rec := doRequest(t, router, http.MethodPut,
		"/api/v1/sparks/"+uuid.NewString()+"/subscribers/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscribe_InvalidUserID(t *testing.T) {
	router := newSubsRouter(&mockSubs{})

	rec := doRequest(t, router, http.MethodPut,
		"/api/v1/sparks/"+uuid.NewString()+"/subscribers/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnsubscribe(t *testing.T) {
	subs := &mockSubs{
		unsubscribeFunc: func(context.Context, uuid.UUID, uuid.UUID) error { return nil },
	}
	router := newSubsRouter(subs)

	rec := doRequest(t, router, http.MethodDelete,
		"/api/v1/sparks/"+uuid.NewString()+"/subscribers/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUnsubscribe_UserNotFound(t *testing.T) {
	subs := &mockSubs{
		unsubscribeFunc: func(context.Context, uuid.UUID, uuid.UUID) error {
			return spark.ErrUserNotFound
		},
	}
	router := newSubsRouter(subs)

	rec := doRequest(t, router, http.MethodDelete,
		"/api/v1/sparks/"+uuid.NewString()+"/subscribers/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
