// Package api 북마크 요청을 받는 HTTP API 서버를 제공합니다.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	_ "github.com/darkkaiser/pixiv-bookmark/docs"
	"github.com/darkkaiser/pixiv-bookmark/internal/config"
	"github.com/darkkaiser/pixiv-bookmark/internal/pkg/version"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/api/auth"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/api/handler/system"
	v1 "github.com/darkkaiser/pixiv-bookmark/internal/service/api/v1"
	v1handler "github.com/darkkaiser/pixiv-bookmark/internal/service/api/v1/handler"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/contract"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/labstack/echo/v4"
)

const (
	component = "api.service"

	shutdownTimeout = 5 * time.Second
)

// Service API 서버의 생명주기를 관리합니다.
type Service struct {
	appConfig *config.AppConfig

	submitter          contract.BookmarkSubmitter
	notificationHealth contract.HealthChecker

	buildInfo version.Info

	// listener 테스트에서 임의 포트로 서버를 띄우기 위해 사용합니다. nil이면 설정의 포트로 Listen합니다.
	listener net.Listener

	running   bool
	runningMu sync.Mutex
}

func NewService(appConfig *config.AppConfig, submitter contract.BookmarkSubmitter, notificationHealth contract.HealthChecker, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic("api.NewService: AppConfig는 필수입니다")
	}
	if submitter == nil {
		panic("api.NewService: BookmarkSubmitter는 필수입니다")
	}
	if notificationHealth == nil {
		panic("api.NewService: HealthChecker는 필수입니다")
	}

	return &Service{
		appConfig:          appConfig,
		submitter:          submitter,
		notificationHealth: notificationHealth,
		buildInfo:          buildInfo,
	}
}

// Start HTTP 서버를 백그라운드로 시작합니다.
// serviceStopCtx가 취소되면 진행 중인 요청을 최대 shutdownTimeout 동안 기다린 뒤 serviceStopWG.Done()을 호출합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("API 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("API 서비스가 이미 시작되었습니다")
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(component).Info("API 서비스 시작됨")

	return nil
}

func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

func (s *Service) setupServer() *echo.Echo {
	apiConfig := s.appConfig.BookmarkAPI

	e := NewHTTPServer(HTTPServerConfig{
		Debug:        s.appConfig.Debug,
		EnableHSTS:   apiConfig.WS.TLSServer,
		AllowOrigins: apiConfig.CORS.AllowOrigins,
	})

	RegisterRoutes(e, system.NewHandler(s.notificationHealth, s.buildInfo))
	v1.RegisterRoutes(e, v1handler.NewHandler(s.submitter), auth.NewAuthenticator(apiConfig.Applications))

	return e
}

func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	ws := s.appConfig.BookmarkAPI.WS
	applog.WithComponentAndFields(component, applog.Fields{
		"port": ws.ListenPort,
		"tls":  ws.TLSServer,
	}).Info("HTTP 서버 시작")

	var err error
	switch {
	case s.listener != nil:
		e.Listener = s.listener
		err = e.Start("")
	case ws.TLSServer:
		err = e.StartTLS(fmt.Sprintf(":%d", ws.ListenPort), ws.TLSCertFile, ws.TLSKeyFile)
	default:
		err = e.Start(fmt.Sprintf(":%d", ws.ListenPort))
	}

	if err == nil || errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(component).Info("HTTP 서버 종료됨")
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"port":  ws.ListenPort,
		"error": err,
	}).Error("HTTP 서버 구동 중 치명적인 오류가 발생했습니다")
}

func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(component).Info("API 서비스 중지중...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := e.Shutdown(ctx); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Error("HTTP 서버 종료 중 오류가 발생했습니다")
		}

		<-httpServerDone

	case <-httpServerDone:
		applog.WithComponent(component).Error("HTTP 서버가 예기치 않게 종료되었습니다")
	}

	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(component).Info("API 서비스 중지됨")
}
