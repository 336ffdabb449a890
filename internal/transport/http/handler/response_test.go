package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petnfc-api/internal/domain"
)

func TestHTTPError_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("pet p1: %w", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest), http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrAuthenticationRequired, http.StatusForbidden},
		{fmt.Errorf("otp state: %w", domain.ErrConflict), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rr := httptest.NewRecorder()
			httpError(context.Background(), rr, tc.err)
			assert.Equal(t, tc.code, rr.Code)

			var env MessageEnvelope
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
			assert.Equal(t, tc.code, env.ErrorCode)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestHTTPError_InternalMessageHidden(t *testing.T) {
	rr := httptest.NewRecorder()
	httpError(context.Background(), rr, errors.New("connection refused to 10.0.0.5"))
	assert.NotContains(t, rr.Body.String(), "10.0.0.5")
}

func TestPing(t *testing.T) {
	h := NewHealthHandler()

	rr := httptest.NewRecorder()
	h.Ping(rr, withChiParam(httptest.NewRequest(http.MethodGet, "/v1/health-check/ping", nil), "action", "ping"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pong")

	rr = httptest.NewRecorder()
	h.Ping(rr, withChiParam(httptest.NewRequest(http.MethodGet, "/v1/health-check/nope", nil), "action", "nope"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
