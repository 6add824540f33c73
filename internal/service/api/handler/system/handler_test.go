package system

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/pixiv-bookmark/internal/pkg/version"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHealth struct{ err error }

func (f fakeHealth) Health() error { return f.err }

func call(t *testing.T, fn echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, fn(c))
	return rec
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		healthErr  error
		wantStatus string
	}{
		{"정상", nil, StatusHealthy},
		{"알림 서비스 비정상", errors.New("알림 서비스가 실행 중이 아닙니다"), StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHandler(fakeHealth{err: tt.healthErr}, version.Info{})
			rec := call(t, h.HealthCheckHandler)

			assert.Equal(t, http.StatusOK, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantStatus, resp.Dependencies[dependencyNotification].Status)
			assert.GreaterOrEqual(t, resp.Uptime, int64(0))
			if tt.healthErr != nil {
				assert.Equal(t, tt.healthErr.Error(), resp.Dependencies[dependencyNotification].Message)
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	t.Parallel()

	h := NewHandler(fakeHealth{}, version.Info{
		Version:     "v1.2.3",
		Commit:      "abc1234",
		BuildDate:   "2026-01-01",
		BuildNumber: "7",
		GoVersion:   "go1.24.11",
	})
	rec := call(t, h.VersionHandler)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"version": "v1.2.3",
		"commit": "abc1234",
		"build_date": "2026-01-01",
		"build_number": "7",
		"go_version": "go1.24.11"
	}`, rec.Body.String())
}

func TestNewHandler_NilHealthCheckerPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewHandler(nil, version.Info{}) })
}
