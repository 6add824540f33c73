package log

import (
	"fmt"
	"os"
)

// Options 로거 초기화에 필요한 설정값입니다.
type Options struct {
	Name  string // 로그 파일명에 사용될 애플리케이션 식별자
	Dir   string // 로그 파일 저장 디렉토리 (빈 값이면 "logs")
	Level Level

	MaxAge     int // 오래된 로그 파일 보관 일수 (0: 삭제 안 함)
	MaxSizeMB  int // 로그 파일 하나의 최대 크기 (0: 기본값 사용)
	MaxBackups int // 로테이션 된 파일의 최대 보관 개수 (0: 기본값 사용)

	EnableCriticalLog bool // ERROR 이상 로그를 별도 파일로 분리
	EnableVerboseLog  bool // DEBUG 이하 로그를 별도 파일로 분리
	EnableConsoleLog  bool // 표준 출력에도 기록

	// ReportCaller 로그를 호출한 함수와 라인번호를 함께 기록할지 여부
	ReportCaller bool

	// CallerPathPrefix 호출자 함수명에서 잘라낼 패키지 경로 prefix
	// 예: "github.com/darkkaiser/pixiv-bookmark" -> ".../internal/service/bookmark.(*Submitter).Submit"
	CallerPathPrefix string
}

// Validate Options 필드 값의 유효성을 검사합니다.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 설정되지 않았습니다")
	}

	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉토리 경로(%s)가 이미 파일로 존재합니다", opts.Dir)
		}
	}

	if opts.MaxAge < 0 {
		return fmt.Errorf("MaxAge는 0 이상이어야 합니다: %d", opts.MaxAge)
	}
	if opts.MaxSizeMB < 0 {
		return fmt.Errorf("MaxSizeMB는 0 이상이어야 합니다: %d", opts.MaxSizeMB)
	}
	if opts.MaxBackups < 0 {
		return fmt.Errorf("MaxBackups는 0 이상이어야 합니다: %d", opts.MaxBackups)
	}

	return nil
}

// NewProductionOptions 운영 환경용 로그 설정을 반환합니다.
func NewProductionOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: InfoLevel,

		MaxAge:     30,
		MaxSizeMB:  100,
		MaxBackups: 20,

		EnableCriticalLog: true,
		EnableVerboseLog:  true,
		EnableConsoleLog:  false,

		ReportCaller:     true,
		CallerPathPrefix: "github.com/darkkaiser/pixiv-bookmark",
	}
}

// NewDevelopmentOptions 개발 환경용 로그 설정을 반환합니다.
func NewDevelopmentOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: TraceLevel,

		MaxAge:     1,
		MaxSizeMB:  50,
		MaxBackups: 5,

		EnableCriticalLog: false,
		EnableVerboseLog:  false,
		EnableConsoleLog:  true,

		ReportCaller:     true,
		CallerPathPrefix: "github.com/darkkaiser/pixiv-bookmark",
	}
}
