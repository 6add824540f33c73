package middleware

import (
	"net/url"
	"strconv"
	"time"

	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/darkkaiser/pixiv-bookmark/pkg/strutil"
	"github.com/labstack/echo/v4"
)

// sensitiveQueryParams 접근 로그에 남기기 전에 마스킹하는 쿼리 파라미터 목록
var sensitiveQueryParams = []string{
	"app_key",
	"access_token",
	"token",
	"api_key",
	"password",
	"secret",
}

// HTTPLogger 요청마다 한 줄의 구조화된 접근 로그를 남깁니다.
// 핸들러가 반환한 에러는 여기서 c.Error()로 처리하여 로그에 최종 상태 코드가 기록되도록 합니다.
func HTTPLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			stop := time.Now()
			latency := stop.Sub(start)

			path := req.URL.Path
			if path == "" {
				path = "/"
			}

			bytesIn := req.Header.Get(echo.HeaderContentLength)
			if bytesIn == "" {
				bytesIn = "0"
			}

			applog.WithFields(applog.Fields{
				"time_rfc3339": stop.Format(time.RFC3339),

				"method":   req.Method,
				"path":     path,
				"uri":      maskSensitiveQueryParams(req.RequestURI),
				"host":     req.Host,
				"protocol": req.Proto,

				"remote_ip":  c.RealIP(),
				"user_agent": req.UserAgent(),
				"referer":    req.Referer(),

				"status":    res.Status,
				"bytes_in":  bytesIn,
				"bytes_out": strconv.FormatInt(res.Size, 10),

				"latency":       strconv.FormatInt(latency.Microseconds(), 10),
				"latency_human": latency.String(),

				"request_id": res.Header().Get(echo.HeaderXRequestID),
			}).Info("HTTP 요청")

			return nil
		}
	}
}

func maskSensitiveQueryParams(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	q := u.Query()
	masked := false
	for _, param := range sensitiveQueryParams {
		if q.Has(param) {
			q.Set(param, strutil.Mask(q.Get(param)))
			masked = true
		}
	}

	if !masked {
		return uri
	}

	u.RawQuery = q.Encode()
	return u.String()
}
