package api

import (
	"net/http"
	"time"

	"github.com/darkkaiser/pixiv-bookmark/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/pixiv-bookmark/internal/service/api/middleware"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	defaultReadTimeout       = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultWriteTimeout      = 35 * time.Second
	defaultIdleTimeout       = 120 * time.Second

	// defaultRequestTimeout 핸들러 1건의 처리 제한. 북마크 전송은 백그라운드로 진행되므로 짧게 둡니다.
	defaultRequestTimeout = 30 * time.Second

	defaultRateLimitPerSecond = 5
	defaultRateLimitBurst     = 10

	defaultMaxBodySize = "64K"
)

// HTTPServerConfig NewHTTPServer 설정
type HTTPServerConfig struct {
	Debug bool

	// EnableHSTS TLS로 서비스하는 경우 Strict-Transport-Security 헤더를 추가합니다.
	EnableHSTS bool

	AllowOrigins []string

	// RequestTimeout 0이면 defaultRequestTimeout을 사용합니다.
	RequestTimeout time.Duration
}

// NewHTTPServer 공통 미들웨어가 적용된 echo 인스턴스를 생성합니다. 라우트는 호출자가 등록합니다.
//
// 미들웨어는 다음 순서로 적용됩니다.
//  1. PanicRecovery: 이후 단계에서 발생한 panic 복구
//  2. RequestID: 요청 추적 ID 부여
//  3. Server 헤더 제거
//  4. HTTPLogger: 접근 로그 (민감 정보 마스킹)
//  5. RateLimiting: IP별 요청 수 제한
//  6. BodyLimit: 요청 본문 크기 제한
//  7. Timeout: 요청 처리 시간 제한
//  8. CORS
//  9. Secure: 보안 헤더
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = defaultReadTimeout
	e.Server.ReadHeaderTimeout = defaultReadHeaderTimeout
	e.Server.WriteTimeout = defaultWriteTimeout
	e.Server.IdleTimeout = defaultIdleTimeout

	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}
	e.HTTPErrorHandler = httputil.ErrorHandler

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	e.Use(appmiddleware.PanicRecovery())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	e.Use(appmiddleware.HTTPLogger())
	e.Use(appmiddleware.RateLimiting(defaultRateLimitPerSecond, defaultRateLimitBurst))
	e.Use(middleware.BodyLimit(defaultMaxBodySize))
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: timeout,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, appmiddleware.HeaderAppKey, appmiddleware.HeaderApplicationID},
	}))

	secureConfig := middleware.DefaultSecureConfig
	if cfg.EnableHSTS {
		secureConfig.HSTSMaxAge = 31536000
	}
	e.Use(middleware.SecureWithConfig(secureConfig))

	return e
}
