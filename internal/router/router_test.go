package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/router"
	"storefront/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	logger.Discard()

	tests := []struct {
		name       string
		check      func(context.Context) error
		wantStatus int
		want       string
	}{
		{"healthy", func(context.Context) error { return nil }, http.StatusOK, "healthy"},
		{"degraded", func(context.Context) error { return errors.New("down") }, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := router.New(router.Services{}, router.Options{
				HealthChecks: map[string]func(context.Context) error{"database": tt.check},
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body struct {
				Status       string          `json:"status"`
				Dependencies map[string]bool `json:"dependencies"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.want, body.Status)
			assert.Equal(t, map[string]bool{"database": tt.check(context.Background()) == nil}, body.Dependencies)
		})
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	logger.Discard()
	app := router.New(router.Services{}, router.Options{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, router.APIPrefix+"/nope", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body struct {
		EC int    `json:"EC"`
		EM string `json:"EM"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.EC)
	assert.NotEmpty(t, body.EM)
}
