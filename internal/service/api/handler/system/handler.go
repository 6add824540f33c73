// Package system 서버 상태 확인과 버전 조회 API를 제공합니다.
package system

import (
	"net/http"
	"time"

	"github.com/darkkaiser/pixiv-bookmark/internal/pkg/version"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/contract"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/labstack/echo/v4"
)

const (
	component = "api.handler.system"

	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	dependencyNotification = "notification_service"
)

// HealthResponse /health 응답
type HealthResponse struct {
	Status       string                      `json:"status" example:"healthy"`
	Uptime       int64                       `json:"uptime" example:"3600"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// DependencyStatus 의존 서비스 하나의 상태
type DependencyStatus struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message,omitempty" example:"정상 작동 중"`
}

// VersionResponse /version 응답
type VersionResponse struct {
	Version     string `json:"version" example:"v1.0.0"`
	Commit      string `json:"commit" example:"0123456"`
	BuildDate   string `json:"build_date" example:"2026-01-01T00:00:00Z"`
	BuildNumber string `json:"build_number" example:"42"`
	GoVersion   string `json:"go_version" example:"go1.24.11"`
}

type Handler struct {
	notificationHealth contract.HealthChecker

	buildInfo version.Info

	serverStartTime time.Time
}

func NewHandler(notificationHealth contract.HealthChecker, buildInfo version.Info) *Handler {
	if notificationHealth == nil {
		panic("system.NewHandler: HealthChecker는 필수입니다")
	}

	return &Handler{
		notificationHealth: notificationHealth,
		buildInfo:          buildInfo,
		serverStartTime:    time.Now(),
	}
}

// HealthCheckHandler 서버와 의존 서비스의 상태를 반환합니다.
//
//	@Summary		서버 상태 확인
//	@Description	서버와 알림 서비스의 상태를 반환합니다.
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(component, applog.Fields{
		"endpoint":  "/health",
		"remote_ip": c.RealIP(),
	}).Debug("헬스체크 요청")

	deps := map[string]DependencyStatus{
		dependencyNotification: {Status: StatusHealthy, Message: "정상 작동 중"},
	}
	if err := h.notificationHealth.Health(); err != nil {
		deps[dependencyNotification] = DependencyStatus{Status: StatusUnhealthy, Message: err.Error()}
	}

	status := StatusHealthy
	for _, dep := range deps {
		if dep.Status != StatusHealthy {
			status = StatusUnhealthy
			break
		}
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:       status,
		Uptime:       int64(time.Since(h.serverStartTime).Seconds()),
		Dependencies: deps,
	})
}

// VersionHandler 빌드 정보를 반환합니다.
//
//	@Summary		버전 정보 조회
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, VersionResponse{
		Version:     h.buildInfo.Version,
		Commit:      h.buildInfo.Commit,
		BuildDate:   h.buildInfo.BuildDate,
		BuildNumber: h.buildInfo.BuildNumber,
		GoVersion:   h.buildInfo.GoVersion,
	})
}
