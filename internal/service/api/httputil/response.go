package httputil

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse 에러 응답 본문입니다. ResultCode에는 HTTP 상태 코드가 들어갑니다.
type ErrorResponse struct {
	ResultCode int    `json:"result_code" example:"400"`
	Message    string `json:"message" example:"artwork_id는 필수입니다"`
}

// SuccessResponse 성공 응답 본문입니다. ResultCode는 항상 0입니다.
type SuccessResponse struct {
	ResultCode int    `json:"result_code" example:"0"`
	Message    string `json:"message" example:"북마크 요청이 접수되었습니다"`
}

// Accepted 요청이 접수되어 백그라운드에서 처리됨을 202로 응답합니다.
func Accepted(c echo.Context, message string) error {
	return c.JSON(http.StatusAccepted, SuccessResponse{
		ResultCode: 0,
		Message:    message,
	})
}
