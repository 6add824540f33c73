package config

import "time"

const (
	// DefaultRequestTimeout 북마크 추가 요청 1건에 허용되는 최대 시간
	DefaultRequestTimeout = 30 * time.Second

	// DefaultOSRelease, DefaultDeviceModel User-Agent에 표시되는 단말 정보의 기본값입니다.
	DefaultOSRelease   = "13"
	DefaultDeviceModel = "Pixel 7"

	// LogNotifierID 항상 존재하는 로그 출력용 알림 채널의 ID
	LogNotifierID = "log"

	DefaultListenPort = 2443
)

func newDefaultConfig() AppConfig {
	return AppConfig{
		Pixiv: PixivConfig{
			OSRelease:      DefaultOSRelease,
			DeviceModel:    DefaultDeviceModel,
			RequestTimeout: DefaultRequestTimeout,
		},
		Notifier: NotifierConfig{
			DefaultNotifierID: LogNotifierID,
			Telegrams:         []TelegramConfig{},
		},
		BookmarkAPI: BookmarkAPIConfig{
			WS: WSConfig{
				ListenPort: DefaultListenPort,
			},
			CORS: CORSConfig{
				AllowOrigins: []string{"*"},
			},
			Applications: []ApplicationConfig{},
		},
	}
}
