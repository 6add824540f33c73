// Package middleware 북마크 API 서버에서 사용하는 echo 미들웨어를 제공합니다.
package middleware

import (
	"net/http"

	"github.com/darkkaiser/pixiv-bookmark/internal/service/api/httputil"
	"github.com/labstack/echo/v4"
)

const component = "api.middleware"

var (
	ErrAppKeyRequired = httputil.NewBadRequestError("app_key는 필수입니다 (X-App-Key 헤더)")

	ErrApplicationIDRequired = httputil.NewBadRequestError("application_id는 필수입니다")

	ErrBodyTooLarge = echo.NewHTTPError(http.StatusRequestEntityTooLarge, httputil.ErrorResponse{
		ResultCode: http.StatusRequestEntityTooLarge,
		Message:    "요청 본문이 너무 큽니다",
	})

	ErrBodyReadFailed = httputil.NewBadRequestError("요청 본문을 읽을 수 없습니다")

	ErrEmptyBody = httputil.NewBadRequestError("요청 본문이 비어있습니다")

	ErrInvalidJSON = httputil.NewBadRequestError("잘못된 JSON 형식입니다")

	ErrTooManyRequests = httputil.NewTooManyRequestsError("요청이 너무 많습니다. 잠시 후 다시 시도해주세요")

	ErrUnsupportedMediaType = httputil.NewUnsupportedMediaTypeError("지원하지 않는 Content-Type 형식입니다")
)
