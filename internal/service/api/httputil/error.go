// Package httputil API 핸들러가 공통으로 사용하는 응답 형식과 에러 처리를 제공합니다.
package httputil

import (
	"errors"
	"net/http"

	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/labstack/echo/v4"
)

const component = "api.error_handler"

const (
	msgInternalServerError = "내부 서버 오류가 발생했습니다"
	msgNotFound            = "요청한 리소스를 찾을 수 없습니다"
)

// ContextKeyApplicationID 인증된 애플리케이션 ID를 echo.Context에 저장할 때 사용하는 키입니다.
// 에러 로그에 애플리케이션 정보를 함께 남기기 위해 사용합니다.
const ContextKeyApplicationID = "pixiv-bookmark/api/ApplicationID"

func newHTTPError(code int, message string) error {
	return echo.NewHTTPError(code, ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}

func NewBadRequestError(message string) error {
	return newHTTPError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message string) error {
	return newHTTPError(http.StatusUnauthorized, message)
}

func NewUnsupportedMediaTypeError(message string) error {
	return newHTTPError(http.StatusUnsupportedMediaType, message)
}

func NewTooManyRequestsError(message string) error {
	return newHTTPError(http.StatusTooManyRequests, message)
}

func NewInternalServerError(message string) error {
	return newHTTPError(http.StatusInternalServerError, message)
}

func NewServiceUnavailableError(message string) error {
	return newHTTPError(http.StatusServiceUnavailable, message)
}

// StatusCode AppError의 에러 타입을 HTTP 상태 코드로 변환합니다.
// AppError가 아닌 에러는 500으로 취급합니다.
func StatusCode(err error) int {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Type() {
	case apperrors.InvalidInput:
		return http.StatusBadRequest
	case apperrors.Unauthorized:
		return http.StatusUnauthorized
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Unavailable:
		return http.StatusServiceUnavailable
	case apperrors.Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// FromError 서비스 계층의 에러를 HTTP 에러로 변환합니다.
// 5xx에 해당하는 에러는 내부 메시지를 노출하지 않고 일반화된 메시지로 대체합니다.
func FromError(err error) error {
	if err == nil {
		return nil
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	code := StatusCode(err)
	message := msgInternalServerError

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && (code < http.StatusInternalServerError || code == http.StatusServiceUnavailable) {
		message = appErr.Message()
	}

	return echo.NewHTTPError(code, ErrorResponse{
		ResultCode: code,
		Message:    message,
	}).SetInternal(err)
}

// ErrorHandler echo의 중앙 에러 핸들러입니다. 모든 에러를 ErrorResponse JSON으로 응답합니다.
func ErrorHandler(err error, c echo.Context) {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he, _ = FromError(err).(*echo.HTTPError)
	}
	if he == nil {
		he = echo.NewHTTPError(http.StatusInternalServerError)
	}

	code := he.Code
	message := msgInternalServerError
	switch m := he.Message.(type) {
	case ErrorResponse:
		message = m.Message
	case string:
		message = m
	}

	if message == http.StatusText(code) {
		switch code {
		case http.StatusNotFound:
			message = msgNotFound
		case http.StatusInternalServerError:
			message = msgInternalServerError
		}
	}

	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": code,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}
	if id, ok := c.Get(ContextKeyApplicationID).(string); ok {
		fields["application_id"] = id
	}

	if code >= http.StatusInternalServerError {
		applog.WithComponentAndFields(component, fields).Error("HTTP 5xx 서버 오류")
	} else if code >= http.StatusBadRequest {
		applog.WithComponentAndFields(component, fields).Warn("HTTP 4xx 클라이언트 오류")
	}

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	_ = c.JSON(code, ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}
