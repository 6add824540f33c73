// Package contract 서비스 간에 주고받는 인터페이스를 정의합니다.
//
// API 계층은 구체 타입 대신 이 인터페이스에 의존하므로, 테스트에서는 가짜 구현으로 쉽게 교체할 수 있습니다.
package contract

import (
	"context"

	"github.com/darkkaiser/pixiv-bookmark/internal/service/bookmark"
)

// BookmarkSubmitter 북마크 추가 요청을 접수합니다. (*bookmark.Submitter가 구현합니다)
type BookmarkSubmitter interface {
	Submit(ctx context.Context, r bookmark.Request) error
}

// HealthChecker 의존 서비스의 상태를 확인합니다. nil이 아닌 에러는 비정상 상태를 의미합니다.
type HealthChecker interface {
	Health() error
}
