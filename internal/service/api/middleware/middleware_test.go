package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/darkkaiser/pixiv-bookmark/internal/config"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/api/auth"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/api/httputil"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = httputil.ErrorHandler
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPanicRecovery(t *testing.T) {
	tests := []struct {
		name  string
		panic any
	}{
		{"문자열 panic", "boom"},
		{"error panic", errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			e.Use(PanicRecovery())
			e.GET("/panic", func(echo.Context) error { panic(tt.panic) })

			rec := serve(e, httptest.NewRequest(http.MethodGet, "/panic", nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), `"result_code":500`)
			assert.NotContains(t, rec.Body.String(), "boom", "panic 내용은 응답에 노출되지 않아야 합니다")
		})
	}
}

func TestHTTPLogger(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	e := newTestEcho()
	e.Use(HTTPLogger())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/fail", func(echo.Context) error { return httputil.NewBadRequestError("bad") })

	t.Run("정상 요청", func(t *testing.T) {
		hook.Reset()

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/ok?app_key=supersecretkey&x=1", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, http.StatusNoContent, entry.Data["status"])
		assert.NotContains(t, entry.Data["uri"], "supersecretkey")
		assert.Contains(t, entry.Data["uri"], "x=1")
	})

	t.Run("핸들러 에러의 최종 상태 코드를 기록", func(t *testing.T) {
		hook.Reset()

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/fail", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, "HTTP 요청", entry.Message)
		assert.Equal(t, http.StatusBadRequest, entry.Data["status"])
	})
}

func TestMaskSensitiveQueryParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		uri        string
		wantAbsent string
		wantSame   bool
	}{
		{"민감 정보 없음", "/api/v1/bookmarks?page=1", "", true},
		{"app_key", "/x?app_key=abcdefghijkl", "abcdefghijkl", false},
		{"access_token", "/x?access_token=tok-123456789", "tok-123456789", false},
		{"파싱 불가", "%zz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := maskSensitiveQueryParams(tt.uri)
			if tt.wantSame {
				assert.Equal(t, tt.uri, got)
				return
			}
			assert.NotContains(t, got, tt.wantAbsent)
		})
	}
}

func TestRateLimiting(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	e.Use(RateLimiting(1, 2))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	newReq := func(ip string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":12345"
		return req
	}

	assert.Equal(t, http.StatusOK, serve(e, newReq("10.0.0.1")).Code)
	assert.Equal(t, http.StatusOK, serve(e, newReq("10.0.0.1")).Code)

	rec := serve(e, newReq("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, serve(e, newReq("10.0.0.2")).Code, "IP마다 별도의 한도가 적용되어야 합니다")
}

func TestRateLimiting_InvalidArguments(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { RateLimiting(0, 1) })
	assert.Panics(t, func() { RateLimiting(1, 0) })
}

func TestValidateContentType(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	e.POST("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, ValidateContentType(echo.MIMEApplicationJSON))

	tests := []struct {
		name        string
		contentType string
		body        string
		want        int
	}{
		{"JSON", echo.MIMEApplicationJSON, "{}", http.StatusOK},
		{"charset 포함 JSON", echo.MIMEApplicationJSONCharsetUTF8, "{}", http.StatusOK},
		{"form", echo.MIMEApplicationForm, "a=b", http.StatusUnsupportedMediaType},
		{"Content-Type 없음", "", "{}", http.StatusUnsupportedMediaType},
		{"본문 없음", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set(echo.HeaderContentType, tt.contentType)
			}

			assert.Equal(t, tt.want, serve(e, req).Code)
		})
	}
}

func TestRequireAuthentication(t *testing.T) {
	t.Parallel()

	authenticator := auth.NewAuthenticator([]config.ApplicationConfig{
		{ID: "viewer", AppKey: "secret-key"},
	})

	e := newTestEcho()
	e.POST("/", func(c echo.Context) error {
		app, ok := auth.GetApplication(c)
		require.True(t, ok)

		var buf bytes.Buffer
		_, _ = buf.ReadFrom(c.Request().Body)

		return c.String(http.StatusOK, app.ID+"|"+buf.String())
	}, RequireAuthentication(authenticator))

	tests := []struct {
		name     string
		appKey   string
		appIDHdr string
		body     string
		want     int
		wantBody string
	}{
		{"본문의 application_id", "secret-key", "", `{"application_id":"viewer"}`, http.StatusOK, `viewer|{"application_id":"viewer"}`},
		{"헤더의 application_id", "secret-key", "viewer", `{}`, http.StatusOK, "viewer|{}"},
		{"app_key 누락", "", "", `{"application_id":"viewer"}`, http.StatusBadRequest, "app_key"},
		{"application_id 누락", "secret-key", "", `{"artwork_id":"1"}`, http.StatusBadRequest, "application_id"},
		{"잘못된 JSON", "secret-key", "", `{"application_id":`, http.StatusBadRequest, "JSON"},
		{"빈 본문", "secret-key", "", ``, http.StatusBadRequest, "비어있습니다"},
		{"잘못된 app_key", "wrong", "", `{"application_id":"viewer"}`, http.StatusUnauthorized, "app_key"},
		{"미등록 애플리케이션", "secret-key", "", `{"application_id":"ghost"}`, http.StatusUnauthorized, "ghost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.appKey != "" {
				req.Header.Set(HeaderAppKey, tt.appKey)
			}
			if tt.appIDHdr != "" {
				req.Header.Set(HeaderApplicationID, tt.appIDHdr)
			}

			rec := serve(e, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRequireAuthentication_BodyTooLarge(t *testing.T) {
	t.Parallel()

	authenticator := auth.NewAuthenticator([]config.ApplicationConfig{{ID: "viewer", AppKey: "k"}})

	e := newTestEcho()
	e.Use(echomiddleware.BodyLimit("16B"))
	e.POST("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireAuthentication(authenticator))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"application_id":"viewer","padding":"xxxxxxxxxxxxxxxx"}`))
	req.ContentLength = -1
	req.Header.Set(HeaderAppKey, "k")

	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(e, req).Code)
}

func TestRequireAuthentication_NilAuthenticatorPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { RequireAuthentication(nil) })
}

func TestLoggerAdapter_Level(t *testing.T) {
	t.Parallel()

	l := Logger{Logger: logrus.New()}

	levels := []log.Lvl{log.DEBUG, log.INFO, log.WARN, log.ERROR}
	for _, lvl := range levels {
		l.SetLevel(lvl)
		assert.Equal(t, lvl, l.Level())
	}

	l.Logger.SetLevel(applog.TraceLevel)
	assert.Equal(t, log.DEBUG, l.Level())

	l.Logger.SetLevel(applog.PanicLevel)
	assert.Equal(t, log.OFF, l.Level())
}

func TestLoggerAdapter_Output(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := Logger{Logger: logrus.New()}
	l.SetOutput(&buf)

	l.Infoj(log.JSON{"key": "value"})
	l.Warnf("hello %s", "world")

	assert.Same(t, &buf, l.Output())
	assert.Contains(t, buf.String(), "key=value")
	assert.Contains(t, buf.String(), "hello world")
	assert.Empty(t, l.Prefix())
}
