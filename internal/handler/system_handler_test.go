package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerMock struct {
	err error
}

func (m *pingerMock) Ping(ctx context.Context) error {
	return m.err
}

func TestHealthReportsConnected(t *testing.T) {
	h := NewSystemHandler(&pingerMock{})

	w := performGet(t, "/health", nil, h.Health)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealthReportsUnavailableWhenPingFails(t *testing.T) {
	h := NewSystemHandler(&pingerMock{err: errors.New("connection refused")})

	w := performGet(t, "/health", nil, h.Health)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decodeEnvelope(t, w)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "disconnected", body["database"])
}

func TestIndexListsEveryEndpoint(t *testing.T) {
	h := NewSystemHandler(&pingerMock{})

	w := performGet(t, "/", nil, h.Index)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	endpoints, ok := body["endpoints"].([]interface{})
	require.True(t, ok)
	assert.Len(t, endpoints, len(Catalog))
	assert.Contains(t, w.Body.String(), "/api/analytics/top-performers")
	assert.Contains(t, w.Body.String(), "/api/students/in-courses")
}
