package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollcall-app/rollcall/internal/api/handler"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

func TestHealth_Healthy(t *testing.T) {
	h := handler.NewHealthHandler(&fakePinger{}, "1.2.3")

	req := newRequest(t, http.MethodGet, "/health", "", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := parseEnvelope(t, rec)
	require.Nil(t, env.Error)

	var got struct {
		Status   string `json:"status"`
		Version  string `json:"version"`
		Database struct {
			Connected bool `json:"connected"`
		} `json:"database"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, "1.2.3", got.Version)
	assert.True(t, got.Database.Connected)
}

func TestHealth_DatabaseDown(t *testing.T) {
	h := handler.NewHealthHandler(&fakePinger{err: errors.New("connection refused")}, "1.2.3")

	req := newRequest(t, http.MethodGet, "/health", "", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := parseEnvelope(t, rec)

	var got struct {
		Status   string `json:"status"`
		Database struct {
			Connected bool `json:"connected"`
		} `json:"database"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "degraded", got.Status)
	assert.False(t, got.Database.Connected)
}
