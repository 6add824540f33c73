package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBotToken = "123456789:ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefgh"

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadWithFile_DefaultsOnly(t *testing.T) {
	cfg, err := LoadWithFile(writeConfigFile(t, `{}`))
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, DefaultOSRelease, cfg.Pixiv.OSRelease)
	assert.Equal(t, DefaultDeviceModel, cfg.Pixiv.DeviceModel)
	assert.Equal(t, DefaultRequestTimeout, cfg.Pixiv.RequestTimeout)
	assert.False(t, cfg.Pixiv.MultipartContentType)
	assert.Equal(t, LogNotifierID, cfg.Notifier.DefaultNotifierID)
	assert.Empty(t, cfg.Notifier.Telegrams)
	assert.Equal(t, DefaultListenPort, cfg.BookmarkAPI.WS.ListenPort)
	assert.Equal(t, []string{"*"}, cfg.BookmarkAPI.CORS.AllowOrigins)
}

func TestLoadWithFile_FullConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"debug": true,
		"pixiv": {
			"os_release": "14",
			"device_model": "SM-S918N",
			"request_timeout": "10s",
			"proxy_url": "http://127.0.0.1:3128",
			"multipart_content_type": true
		},
		"notifier": {
			"default_notifier_id": "tg",
			"telegrams": [
				{ "id": "tg", "bot_token": "`+validBotToken+`", "chat_id": 12345 }
			]
		},
		"bookmark_api": {
			"ws": { "listen_port": 8080 },
			"cors": { "allow_origins": ["https://example.com"] },
			"applications": [
				{ "id": "viewer", "title": "Viewer", "app_key": "secret-key" }
			]
		}
	}`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "14", cfg.Pixiv.OSRelease)
	assert.Equal(t, "SM-S918N", cfg.Pixiv.DeviceModel)
	assert.Equal(t, 10*time.Second, cfg.Pixiv.RequestTimeout)
	assert.Equal(t, "http://127.0.0.1:3128", cfg.Pixiv.ProxyURL)
	assert.True(t, cfg.Pixiv.MultipartContentType)
	require.Len(t, cfg.Notifier.Telegrams, 1)
	assert.Equal(t, int64(12345), cfg.Notifier.Telegrams[0].ChatID)
	assert.Equal(t, 8080, cfg.BookmarkAPI.WS.ListenPort)
	assert.Equal(t, []string{"https://example.com"}, cfg.BookmarkAPI.CORS.AllowOrigins)
	require.Len(t, cfg.BookmarkAPI.Applications, 1)
	assert.Equal(t, "secret-key", cfg.BookmarkAPI.Applications[0].AppKey)
}

func TestLoadWithFile_EnvOverride(t *testing.T) {
	t.Setenv("PIXIV_BOOKMARK_PIXIV__REQUEST_TIMEOUT", "5s")
	t.Setenv("PIXIV_BOOKMARK_PIXIV__DEVICE_MODEL", "Pixel 9")
	t.Setenv("PIXIV_BOOKMARK_DEBUG", "true")

	cfg, err := LoadWithFile(writeConfigFile(t, `{"pixiv": {"request_timeout": "20s"}}`))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Pixiv.RequestTimeout)
	assert.Equal(t, "Pixel 9", cfg.Pixiv.DeviceModel)
	assert.True(t, cfg.Debug)
}

func TestLoadWithFile_NoFile(t *testing.T) {
	cfg, err := LoadWithFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRequestTimeout, cfg.Pixiv.RequestTimeout)
}

func TestLoadWithFile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantType apperrors.ErrorType
		wantMsg  string
	}{
		{"알 수 없는 필드", `{"unknown_field": 1}`, apperrors.InvalidInput, "구조체로 변환"},
		{"잘못된 JSON", `{`, apperrors.InvalidInput, "설정 파일 로드 중 오류"},
		{"request_timeout 0", `{"pixiv": {"request_timeout": "0s"}}`, apperrors.InvalidInput, "request_timeout"},
		{"device_model 누락", `{"pixiv": {"device_model": ""}}`, apperrors.InvalidInput, "device_model"},
		{"잘못된 proxy_url", `{"pixiv": {"proxy_url": "not a url"}}`, apperrors.InvalidInput, "proxy_url"},
		{"정의되지 않은 기본 알림 채널", `{"notifier": {"default_notifier_id": "missing"}}`, apperrors.NotFound, "default_notifier_id"},
		{
			"잘못된 봇 토큰",
			`{"notifier": {"telegrams": [{"id": "tg", "bot_token": "invalid", "chat_id": 1}]}}`,
			apperrors.InvalidInput, "BotToken",
		},
		{
			"예약된 알림 채널 ID",
			`{"notifier": {"telegrams": [{"id": "log", "bot_token": "` + validBotToken + `", "chat_id": 1}]}}`,
			apperrors.InvalidInput, "예약",
		},
		{
			"중복된 알림 채널 ID",
			`{"notifier": {"telegrams": [
				{"id": "tg", "bot_token": "` + validBotToken + `", "chat_id": 1},
				{"id": "tg", "bot_token": "` + validBotToken + `", "chat_id": 2}
			]}}`,
			apperrors.InvalidInput, "중복",
		},
		{"포트 범위 초과", `{"bookmark_api": {"ws": {"listen_port": 70000}}}`, apperrors.InvalidInput, "listen_port"},
		{"TLS 인증서 누락", `{"bookmark_api": {"ws": {"tls_server": true}}}`, apperrors.InvalidInput, "tls_cert_file"},
		{"잘못된 CORS Origin", `{"bookmark_api": {"cors": {"allow_origins": ["example.com"]}}}`, apperrors.InvalidInput, "CORS Origin"},
		{"와일드카드 혼용", `{"bookmark_api": {"cors": {"allow_origins": ["*", "https://a.com"]}}}`, apperrors.InvalidInput, "와일드카드"},
		{"CORS 목록 비어 있음", `{"bookmark_api": {"cors": {"allow_origins": []}}}`, apperrors.InvalidInput, "allow_origins"},
		{
			"중복된 애플리케이션 ID",
			`{"bookmark_api": {"applications": [{"id": "a", "app_key": "k1"}, {"id": "a", "app_key": "k2"}]}}`,
			apperrors.InvalidInput, "중복",
		},
		{"app_key 누락", `{"bookmark_api": {"applications": [{"id": "a"}]}}`, apperrors.InvalidInput, "app_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithFile(writeConfigFile(t, tt.content))

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.wantType), "got: %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadWithFile_FileNotFound(t *testing.T) {
	_, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.System))
	assert.Contains(t, err.Error(), "찾을 수 없습니다")
}

func TestNormalizeEnvKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pixiv.os_release", normalizeEnvKey("PIXIV_BOOKMARK_PIXIV__OS_RELEASE"))
	assert.Equal(t, "debug", normalizeEnvKey("PIXIV_BOOKMARK_DEBUG"))
	assert.Equal(t, "bookmark_api.ws.listen_port", normalizeEnvKey("PIXIV_BOOKMARK_BOOKMARK_API__WS__LISTEN_PORT"))
}

func TestVerifyRecommendations(t *testing.T) {
	t.Parallel()

	cfg := newDefaultConfig()
	cfg.BookmarkAPI.WS.ListenPort = 443

	warnings := cfg.VerifyRecommendations()

	assert.Len(t, warnings, 3)

	cfg.BookmarkAPI.WS.ListenPort = 8080
	cfg.BookmarkAPI.CORS.AllowOrigins = []string{"https://example.com"}
	cfg.BookmarkAPI.Applications = []ApplicationConfig{{ID: "a", AppKey: "k"}}

	assert.Empty(t, cfg.VerifyRecommendations())
}
