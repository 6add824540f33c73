package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/darkkaiser/pixiv-bookmark/internal/config"
	"github.com/darkkaiser/pixiv-bookmark/internal/pkg/fetcher"
	"github.com/darkkaiser/pixiv-bookmark/internal/pkg/version"
	"github.com/darkkaiser/pixiv-bookmark/internal/service"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/api"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/bookmark"
	"github.com/darkkaiser/pixiv-bookmark/internal/service/notification"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
)

// @title Pixiv Bookmark API
// @version 1.0.0
// @description pixiv 작품을 계정 북마크에 추가하는 요청을 접수하는 REST API입니다.
// @description
// @description 요청은 접수 즉시 202로 응답하며, pixiv로의 전송은 백그라운드에서 진행됩니다.
// @description 전송 결과는 응답에 포함되지 않습니다.
// @description
// @description ## 인증 방법
// @description 설정 파일(pixiv-bookmark.json)의 bookmark_api.applications에 애플리케이션을 등록한 후,
// @description X-App-Key 헤더와 application_id(본문 또는 X-Application-Id 헤더)를 함께 전달합니다.

// @contact.name DarkKaiser
// @contact.url https://github.com/DarkKaiser

// @license.name MIT

// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-App-Key
// @description Application Key for authentication

const (
	banner = `
--------------------------------------------------------------------------------
  pixiv-bookmark %s
                                                        developed by DarkKaiser
--------------------------------------------------------------------------------
`

	// closeGracePeriod 종료 시 진행 중인 북마크 전송을 기다리는 추가 여유 시간
	closeGracePeriod = 5 * time.Second
)

// options 명령행 인자
type options struct {
	configFile string

	// artworkID가 지정되면 서버를 띄우지 않고 요청 1건만 전송한 뒤 종료합니다.
	artworkID     string
	artworkTitle  string
	artworkArtist string
	accessToken   string
}

func (o options) oneShot() bool {
	return o.artworkID != ""
}

func parseOptions(args []string, output io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&o.configFile, "config", "", fmt.Sprintf("설정 파일 경로 (기본: 현재 디렉토리에 %s가 있으면 사용)", config.DefaultFilename))
	fs.StringVar(&o.artworkID, "artwork-id", "", "북마크에 추가할 pixiv 작품 ID (지정하면 요청 1건만 전송하고 종료)")
	fs.StringVar(&o.artworkTitle, "title", "", "알림에 표시할 작품 제목")
	fs.StringVar(&o.artworkArtist, "artist", "", "알림에 표시할 작가 이름")
	fs.StringVar(&o.accessToken, "access-token", os.Getenv("PIXIV_ACCESS_TOKEN"), "pixiv OAuth 액세스 토큰 (기본: PIXIV_ACCESS_TOKEN 환경 변수)")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("알 수 없는 인자입니다: %v", fs.Args())
	}

	return o, nil
}

// resolveConfigFile -config가 지정되지 않았다면 기본 설정 파일이 있을 때만 사용합니다.
func resolveConfigFile(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if _, err := os.Stat(config.DefaultFilename); err == nil {
		return config.DefaultFilename
	}
	return ""
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseOptions(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		return 2
	}

	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.LoadWithFile(resolveConfigFile(opts.configFile))
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		return 1
	}

	// 2. 로그 시스템 초기화
	logOpts := applog.NewProductionOptions(config.AppName)
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	}

	logCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패: %v\n", err)
		return 1
	}
	defer logCloser.Close()

	applog.SetDebugMode(appConfig.Debug)

	buildInfo := version.Get()
	fmt.Printf(banner, buildInfo.Version)

	applog.WithComponentAndFields("main", applog.Fields{
		"version":  buildInfo.String(),
		"env":      map[bool]string{true: "development", false: "production"}[appConfig.Debug],
		"one_shot": opts.oneShot(),
	}).Info("초기화 시작")

	f, err := fetcher.New(
		fetcher.WithTimeout(appConfig.Pixiv.RequestTimeout),
		fetcher.WithProxy(appConfig.Pixiv.ProxyURL),
	)
	if err != nil {
		applog.WithComponentAndFields("main", applog.Fields{"error": err}).Error("HTTP 클라이언트 생성 실패")
		return 1
	}

	notificationService := notification.NewService(appConfig.Notifier, appConfig.Debug)
	submitter := bookmark.NewSubmitter(notificationService, f, bookmark.Options{
		OSRelease:            appConfig.Pixiv.OSRelease,
		DeviceModel:          appConfig.Pixiv.DeviceModel,
		RequestTimeout:       appConfig.Pixiv.RequestTimeout,
		MultipartContentType: appConfig.Pixiv.MultipartContentType,
	})

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serviceStopWG := &sync.WaitGroup{}

	services := []service.Service{notificationService}
	if !opts.oneShot() {
		for _, warning := range appConfig.VerifyRecommendations() {
			applog.WithComponent("main").Warn(warning)
		}
		services = append(services, api.NewService(appConfig, submitter, notificationService, buildInfo))
	}

	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", applog.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel()
			serviceStopWG.Wait()

			return 1
		}
	}

	exitCode := 0
	if opts.oneShot() {
		exitCode = submitOnce(submitter, opts)
	} else {
		waitForSignal()
	}

	// 서비스를 먼저 중지하여 새 요청을 받지 않도록 한 뒤, 진행 중인 전송을 기다린다.
	cancel()
	serviceStopWG.Wait()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), appConfig.Pixiv.RequestTimeout+closeGracePeriod)
	defer closeCancel()

	if err := submitter.Close(closeCtx); err != nil {
		applog.WithComponentAndFields("main", applog.Fields{"error": err}).Warn("북마크 전송기 종료 대기 실패")
	}

	applog.WithComponent("main").Info("종료")

	return exitCode
}

func submitOnce(submitter *bookmark.Submitter, opts options) int {
	err := submitter.Submit(context.Background(), bookmark.Request{
		ArtworkID:     opts.artworkID,
		ArtworkTitle:  opts.artworkTitle,
		ArtworkArtist: opts.artworkArtist,
		AccessToken:   opts.accessToken,
	})
	if err != nil {
		applog.WithComponentAndFields("main", applog.Fields{
			"artwork_id": opts.artworkID,
			"error":      err,
		}).Error("북마크 요청 실패")
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		return 1
	}

	applog.WithComponentAndFields("main", applog.Fields{
		"artwork_id": opts.artworkID,
	}).Info("북마크 요청 전송")

	return 0
}

func waitForSignal() {
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(termC)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC

	applog.WithComponent("main").Info("종료 신호 수신")
}
