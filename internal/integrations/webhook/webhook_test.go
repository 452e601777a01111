package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashlane/advance-service/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleDecision() *models.Decision {
	return &models.Decision{
		ID:                 "dec-123",
		UserID:             "user-1",
		Approved:           true,
		Score:              72.5,
		Tier:               models.TierB,
		AmountGrantedCents: 5000,
	}
}

func TestNotifyDecision_Delivers(t *testing.T) {
	var received models.Decision
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	attempts, err := NewClient(srv.URL, testLogger()).NotifyDecision(sampleDecision())
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Success)
	assert.Equal(t, http.StatusOK, attempts[0].StatusCode)
	assert.Equal(t, "dec-123", received.ID)
}

func TestNotifyDecision_RetriesThenGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	attempts, err := NewClient(srv.URL, testLogger()).NotifyDecision(sampleDecision())
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, attempts, 3)
	for _, a := range attempts {
		assert.False(t, a.Success)
		assert.Equal(t, http.StatusInternalServerError, a.StatusCode)
	}
}

func TestNotifyDecision_RecoversOnRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	attempts, err := NewClient(srv.URL, testLogger()).NotifyDecision(sampleDecision())
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.False(t, attempts[0].Success)
	assert.True(t, attempts[1].Success)
}

func TestNotifyDecision_DisabledClient(t *testing.T) {
	client := NewClient("", testLogger())

	assert.False(t, client.Enabled())
	attempts, err := client.NotifyDecision(sampleDecision())
	assert.NoError(t, err)
	assert.Nil(t, attempts)
}
