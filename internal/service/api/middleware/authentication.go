package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/darkkaiser/pixiv-bookmark/internal/service/api/auth"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"
)

const (
	HeaderAppKey        = "X-App-Key"
	HeaderApplicationID = "X-Application-Id"

	queryParamAppKey = "app_key"
)

// RequireAuthentication application_id와 app_key를 검증하고, 인증된 애플리케이션을 Context에 저장합니다.
//
// app_key는 X-App-Key 헤더로 받습니다. application_id는 X-Application-Id 헤더를 우선하고,
// 없으면 JSON 본문의 application_id 필드를 사용합니다. 본문을 읽은 경우 핸들러가 다시 읽을 수 있도록 복원합니다.
func RequireAuthentication(authenticator *auth.Authenticator) echo.MiddlewareFunc {
	if authenticator == nil {
		panic("RequireAuthentication: Authenticator는 필수입니다")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			appKey := extractAppKey(c)
			if appKey == "" {
				return ErrAppKeyRequired
			}

			applicationID, err := extractApplicationID(c)
			if err != nil {
				return err
			}
			if applicationID == "" {
				return ErrApplicationIDRequired
			}

			app, err := authenticator.Authenticate(applicationID, appKey)
			if err != nil {
				return err
			}

			auth.SetApplication(c, app)

			return next(c)
		}
	}
}

func extractAppKey(c echo.Context) string {
	if appKey := c.Request().Header.Get(HeaderAppKey); appKey != "" {
		return appKey
	}

	appKey := c.QueryParam(queryParamAppKey)
	if appKey != "" {
		applog.WithComponentAndFields(component, applog.Fields{
			"method":    c.Request().Method,
			"path":      c.Path(),
			"remote_ip": c.RealIP(),
		}).Warn("보안 경고: 쿼리 파라미터로 app_key가 전달되었습니다 (X-App-Key 헤더 사용 권장)")
	}

	return appKey
}

func extractApplicationID(c echo.Context) (string, error) {
	if id := c.Request().Header.Get(HeaderApplicationID); id != "" {
		return id, nil
	}

	if c.Request().Body == nil {
		return "", ErrEmptyBody
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return "", ErrBodyTooLarge
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return "", ErrBodyTooLarge
		}
		return "", ErrBodyReadFailed
	}
	_ = c.Request().Body.Close()

	if len(body) == 0 {
		return "", ErrEmptyBody
	}
	if !gjson.ValidBytes(body) {
		return "", ErrInvalidJSON
	}

	c.Request().Body = io.NopCloser(bytes.NewReader(body))

	return gjson.GetBytes(body, "application_id").String(), nil
}
