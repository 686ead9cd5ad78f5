package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobe-project/wardrobe/pkg/model"
	"github.com/wardrobe-project/wardrobe/pkg/webhook"
)

func event() webhook.Event {
	return webhook.Event{
		RunID:    "5f1c2e4a-0000-0000-0000-000000000000",
		Job:      "nightly",
		Outcome:  model.OutcomeOK,
		ExitCode: 0,
		Duration: 42 * time.Second,
	}
}

func TestNotifyPostsSignedEvent(t *testing.T) {
	var gotBody []byte
	var gotSig, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Wardrobe-Signature")
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := webhook.New(srv.URL, "sekrit")
	require.NoError(t, n.Notify(context.Background(), event()))

	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, webhook.Sign(gotBody, "sekrit"), gotSig)

	var ev webhook.Event
	require.NoError(t, json.Unmarshal(gotBody, &ev))
	assert.Equal(t, "nightly", ev.Job)
	assert.Equal(t, model.OutcomeOK, ev.Outcome)
	assert.NotEmpty(t, ev.Timestamp)
}

func TestNotifyWithoutSecret(t *testing.T) {
	var gotSig string
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotSig = r.Header.Get("X-Wardrobe-Signature")
	}))
	defer srv.Close()

	n := webhook.New(srv.URL, "")
	require.NoError(t, n.Notify(context.Background(), event()))
	assert.True(t, called)
	assert.Empty(t, gotSig)
}

func TestNotifyRetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := webhook.New(srv.URL, "")
	require.NoError(t, n.Notify(context.Background(), event()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestNotifyGivesUpAfterOneRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	n := webhook.New(srv.URL, "")
	err := n.Notify(context.Background(), event())
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNotifyDoesNotRetry4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := webhook.New(srv.URL, "")
	err := n.Notify(context.Background(), event())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewWithoutURL(t *testing.T) {
	n := webhook.New("", "secret")
	require.Nil(t, n)
	// A nil notifier ignores Notify calls.
	assert.NoError(t, n.Notify(context.Background(), event()))
}
