package config

import (
	"fmt"
	"slices"
	"time"

	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// AppConfig 애플리케이션의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug       bool              `json:"debug"`
	Pixiv       PixivConfig       `json:"pixiv"`
	Notifier    NotifierConfig    `json:"notifier"`
	BookmarkAPI BookmarkAPIConfig `json:"bookmark_api"`
}

func (c *AppConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c.Pixiv, "pixiv"); err != nil {
		return err
	}

	if _, err := c.Notifier.validate(v); err != nil {
		return err
	}

	return c.BookmarkAPI.validate(v)
}

// VerifyRecommendations 에러는 아니지만 운영상 주의가 필요한 설정에 대한 경고 목록을 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	return c.BookmarkAPI.VerifyRecommendations()
}

// PixivConfig pixiv 앱 API 호출에 사용되는 설정
type PixivConfig struct {
	// OSRelease, DeviceModel User-Agent의 "(Android <release>; <model>)" 부분을 구성합니다.
	OSRelease   string `json:"os_release" validate:"required"`
	DeviceModel string `json:"device_model" validate:"required"`

	RequestTimeout time.Duration `json:"request_timeout" validate:"gt=0"`

	// ProxyURL 지정하면 pixiv로 향하는 요청을 해당 프록시로 전송합니다.
	ProxyURL string `json:"proxy_url" validate:"omitempty,url"`

	// MultipartContentType true이면 multipart 본문에 맞는 Content-Type(boundary 포함)을 전송합니다.
	// 기본값(false)은 기존 클라이언트와 동일하게 application/x-www-form-urlencoded를 전송합니다.
	MultipartContentType bool `json:"multipart_content_type"`
}

// NotifierConfig 알림 채널 설정
type NotifierConfig struct {
	// DefaultNotifierID 북마크 진행 알림을 보낼 채널. "log"는 항상 사용할 수 있습니다.
	DefaultNotifierID string           `json:"default_notifier_id" validate:"required"`
	Telegrams         []TelegramConfig `json:"telegrams" validate:"unique=ID"`
}

func (c *NotifierConfig) validate(v *validator.Validate) ([]string, error) {
	if err := checkUniqueField(v, c.Telegrams, "ID", "알림 채널"); err != nil {
		return nil, err
	}

	ids := []string{LogNotifierID}
	for _, t := range c.Telegrams {
		if err := checkStruct(v, t, fmt.Sprintf("Telegram Notifier['%s']", t.ID)); err != nil {
			return nil, err
		}
		if t.ID == LogNotifierID {
			return nil, apperrors.New(apperrors.InvalidInput, fmt.Sprintf("알림 채널 ID '%s'는 예약되어 있어 사용할 수 없습니다", LogNotifierID))
		}
		ids = append(ids, t.ID)
	}

	if !slices.Contains(ids, c.DefaultNotifierID) {
		return nil, apperrors.New(apperrors.NotFound, fmt.Sprintf("기본 알림 채널(default_notifier_id)로 지정된 '%s'가 정의되지 않았습니다", c.DefaultNotifierID))
	}

	return ids, nil
}

// TelegramConfig 텔레그램 알림 채널 설정
type TelegramConfig struct {
	ID       string `json:"id" validate:"required"`
	BotToken string `json:"bot_token" validate:"required,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required"`
}

// BookmarkAPIConfig 북마크 요청을 수신하는 HTTP API 설정
type BookmarkAPIConfig struct {
	WS           WSConfig            `json:"ws"`
	CORS         CORSConfig          `json:"cors"`
	Applications []ApplicationConfig `json:"applications" validate:"unique=ID"`
}

func (c *BookmarkAPIConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c.WS, "웹 서버(ws)"); err != nil {
		return err
	}

	if err := c.CORS.validate(v); err != nil {
		return err
	}

	if err := checkUniqueField(v, c.Applications, "ID", "애플리케이션"); err != nil {
		return err
	}
	for _, app := range c.Applications {
		if err := checkStruct(v, app, fmt.Sprintf("Application['%s']", app.ID)); err != nil {
			return err
		}
	}

	return nil
}

// VerifyRecommendations 운영 환경에서 권장되지 않는 API 설정에 대한 경고를 반환합니다.
func (c *BookmarkAPIConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.WS.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 관리자 권한이 필요할 수 있습니다", c.WS.ListenPort))
	}
	if len(c.Applications) == 0 {
		warnings = append(warnings, "등록된 애플리케이션(applications)이 없어 모든 북마크 요청이 인증에 실패합니다")
	}
	if slices.Contains(c.CORS.AllowOrigins, "*") {
		warnings = append(warnings, "CORS 허용 도메인이 와일드카드(*)로 설정되어 있습니다")
	}

	return warnings
}

// WSConfig 웹 서버의 포트 및 TLS 설정
type WSConfig struct {
	TLSServer   bool   `json:"tls_server"`
	TLSCertFile string `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
	ListenPort  int    `json:"listen_port" validate:"min=1,max=65535"`
}

// CORSConfig CORS 허용 도메인 설정
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"min=1,dive,cors_origin"`
}

func (c *CORSConfig) validate(v *validator.Validate) error {
	if slices.Contains(c.AllowOrigins, "*") && len(c.AllowOrigins) > 1 {
		return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다")
	}
	return checkStruct(v, c, "CORS")
}

// ApplicationConfig 북마크 API를 호출할 수 있는 클라이언트 애플리케이션의 인증 정보
type ApplicationConfig struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AppKey      string `json:"app_key" validate:"required"`
}
