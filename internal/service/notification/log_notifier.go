package notification

import (
	"context"

	"github.com/darkkaiser/pixiv-bookmark/internal/config"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
)

// logNotifier 알림을 INFO 로그로 남깁니다.
type logNotifier struct{}

func newLogNotifier() *logNotifier {
	return &logNotifier{}
}

func (n *logNotifier) ID() string {
	return config.LogNotifierID
}

func (n *logNotifier) Show(ctx context.Context, title, body string) error {
	applog.WithComponentAndFields(component, applog.Fields{
		"notifier_id": n.ID(),
		"title":       title,
		"body":        body,
	}).WithContext(ctx).Info("알림")

	return nil
}
