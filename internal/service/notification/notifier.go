// Package notification 북마크 진행 상황을 사용자에게 알리는 알림 채널들을 관리합니다.
//
// 모든 채널은 Notifier 인터페이스를 구현하며, Service는 설정에 지정된 기본 채널로 알림을 전달합니다.
// 로그 채널("log")은 항상 존재하고, 텔레그램 채널은 설정에 따라 추가됩니다.
package notification

import (
	"context"

	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
)

const component = "notification"

var (
	// ErrQueueFull 전송 대기열이 가득 차 알림을 받을 수 없을 때 반환됩니다.
	ErrQueueFull = apperrors.New(apperrors.Unavailable, "알림 전송 대기열이 가득 찼습니다")

	// ErrClosed 종료된 채널에 알림을 요청하면 반환됩니다.
	ErrClosed = apperrors.New(apperrors.Unavailable, "알림 채널이 종료되었습니다")

	// ErrNotRunning Start 이전이나 종료 이후에 Service.Show가 호출되면 반환됩니다.
	ErrNotRunning = apperrors.New(apperrors.Unavailable, "알림 서비스가 실행 중이 아닙니다")
)

// Notifier 제목과 본문으로 구성된 알림을 표시하는 채널입니다.
// Show는 호출자를 오래 붙잡지 않아야 합니다.
type Notifier interface {
	ID() string
	Show(ctx context.Context, title, body string) error
}

// runner 백그라운드 작업이 필요한 채널이 구현합니다. Run은 ctx가 끝나면 남은 작업을 정리하고 반환합니다.
type runner interface {
	Run(ctx context.Context)
}
