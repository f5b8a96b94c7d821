package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/rentledger/internal/usecase"
	"github.com/iho/rentledger/internal/usecase/mocks"
)

const advancesPath = "/api/v1/leases/lease-1/advances"

func postWithKey(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, advancesPath, bytes.NewBufferString(`{"amount":"100"}`))
	req.Header.Set(IdempotencyKeyHeader, key)
	return req
}

func TestIdempotencyMiddleware_StoreErrorStopsRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)
	store.EXPECT().
		CheckAndSet(gomock.Any(), gomock.Any(), gomock.Nil(), usecase.IdempotencyKeyTTL).
		Return(false, nil, context.DeadlineExceeded)

	var called bool
	rr := httptest.NewRecorder()
	NewIdempotencyMiddleware(store, 0).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, postWithKey("key-err"))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestIdempotencyMiddleware_StoresAndReplays(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	var saved []byte
	store.EXPECT().
		CheckAndSet(gomock.Any(), "POST "+advancesPath+" key-1", gomock.Nil(), usecase.IdempotencyKeyTTL).
		Return(false, nil, nil)
	store.EXPECT().
		Update(gomock.Any(), "POST "+advancesPath+" key-1", gomock.Any(), usecase.IdempotencyKeyTTL).
		DoAndReturn(func(_ context.Context, _ string, response []byte, _ time.Duration) error {
			saved = response
			return nil
		})

	calls := 0
	handler := NewIdempotencyMiddleware(store, 0).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"adv-1"}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, postWithKey("key-1"))
	require.Equal(t, http.StatusCreated, first.Code)

	var cached cachedResponse
	require.NoError(t, json.Unmarshal(saved, &cached))
	assert.Equal(t, http.StatusCreated, cached.Status)

	store.EXPECT().
		CheckAndSet(gomock.Any(), "POST "+advancesPath+" key-1", gomock.Nil(), usecase.IdempotencyKeyTTL).
		Return(true, saved, nil)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, postWithKey("key-1"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replay"))
	assert.JSONEq(t, `{"id":"adv-1"}`, second.Body.String())
}

func TestIdempotencyMiddleware_InFlightDuplicateConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)
	store.EXPECT().
		CheckAndSet(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any()).
		Return(true, []byte(processingMarker), nil)

	var called bool
	rr := httptest.NewRecorder()
	NewIdempotencyMiddleware(store, 0).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, postWithKey("key-busy"))

	assert.False(t, called)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestIdempotencyMiddleware_ServerErrorAllowsRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)
	gomock.InOrder(
		store.EXPECT().CheckAndSet(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any()).Return(false, nil, nil),
		store.EXPECT().Update(gomock.Any(), gomock.Any(), []byte(failedMarker), failedMarkerTTL).Return(nil),
		store.EXPECT().CheckAndSet(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Any()).Return(true, []byte(failedMarker), nil),
		store.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), usecase.IdempotencyKeyTTL).Return(nil),
	)

	status := http.StatusInternalServerError
	handler := NewIdempotencyMiddleware(store, 0).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, postWithKey("key-retry"))
	assert.Equal(t, http.StatusInternalServerError, first.Code)

	status = http.StatusCreated
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, postWithKey("key-retry"))
	assert.Equal(t, http.StatusCreated, second.Code)
}

func TestIdempotencyMiddleware_SkipsReadsAndUnkeyedRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)

	calls := 0
	handler := NewIdempotencyMiddleware(store, 0).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	get := httptest.NewRequest(http.MethodGet, advancesPath, nil)
	get.Header.Set(IdempotencyKeyHeader, "key-get")
	handler.ServeHTTP(httptest.NewRecorder(), get)

	post := httptest.NewRequest(http.MethodPost, advancesPath, bytes.NewBufferString(`{}`))
	handler.ServeHTTP(httptest.NewRecorder(), post)

	assert.Equal(t, 2, calls)
}
