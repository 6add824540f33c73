package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/darkkaiser/pixiv-bookmark/internal/config"
	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
)

// Service 설정에 정의된 알림 채널들을 생성하고 실행하며, 기본 채널로 알림을 전달합니다.
type Service struct {
	cfg   config.NotifierConfig
	debug bool

	newBot func(cfg config.TelegramConfig, debug bool) (botClient, error)

	mu              sync.RWMutex
	running         bool
	notifiers       map[string]Notifier
	defaultNotifier Notifier

	notifiersStopWG sync.WaitGroup
}

// NewService 알림 서비스를 생성합니다. 채널은 Start 시점에 생성됩니다.
func NewService(cfg config.NotifierConfig, debug bool) *Service {
	return &Service{
		cfg:    cfg,
		debug:  debug,
		newBot: newTelegramBot,
	}
}

// Start 알림 채널을 생성하고 백그라운드 작업을 시작합니다.
// serviceStopCtx가 취소되면 채널들을 정리한 뒤 serviceStopWG.Done()을 호출합니다.
// 호출자는 Start 이전에 serviceStopWG.Add(1)을 호출해야 합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	applog.WithComponent(component).Info("알림 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("알림 서비스가 이미 시작되었습니다")
		return nil
	}

	notifiers := map[string]Notifier{config.LogNotifierID: newLogNotifier()}
	for _, tc := range s.cfg.Telegrams {
		bot, err := s.newBot(tc, s.debug)
		if err != nil {
			defer serviceStopWG.Done()
			return err
		}
		notifiers[tc.ID] = newTelegramNotifier(tc.ID, tc.ChatID, bot)
	}

	defaultNotifier, ok := notifiers[s.cfg.DefaultNotifierID]
	if !ok {
		defer serviceStopWG.Done()
		return apperrors.New(apperrors.NotFound, fmt.Sprintf("기본 알림 채널('%s')을 찾을 수 없습니다", s.cfg.DefaultNotifierID))
	}

	for id, n := range notifiers {
		r, ok := n.(runner)
		if !ok {
			continue
		}

		s.notifiersStopWG.Add(1)
		go func() {
			defer s.notifiersStopWG.Done()
			r.Run(serviceStopCtx)
		}()

		applog.WithComponentAndFields(component, applog.Fields{"notifier_id": id}).Debug("알림 채널 실행")
	}

	s.notifiers = notifiers
	s.defaultNotifier = defaultNotifier
	s.running = true

	go s.waitForShutdown(serviceStopCtx, serviceStopWG)

	applog.WithComponentAndFields(component, applog.Fields{
		"default_notifier_id": defaultNotifier.ID(),
		"notifiers":           len(notifiers),
	}).Info("알림 서비스 시작됨")

	return nil
}

func (s *Service) waitForShutdown(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	<-serviceStopCtx.Done()

	applog.WithComponent(component).Info("알림 서비스 중지중...")

	s.notifiersStopWG.Wait()

	s.mu.Lock()
	s.running = false
	s.notifiers = nil
	s.defaultNotifier = nil
	s.mu.Unlock()

	applog.WithComponent(component).Info("알림 서비스 중지됨")
}

// Show 기본 알림 채널로 알림을 전달합니다.
func (s *Service) Show(ctx context.Context, title, body string) error {
	s.mu.RLock()
	n := s.defaultNotifier
	s.mu.RUnlock()

	if n == nil {
		return ErrNotRunning
	}

	return n.Show(ctx, title, body)
}

// Notifier ID에 해당하는 알림 채널을 반환합니다.
func (s *Service) Notifier(id string) (Notifier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifiers[id]
	return n, ok
}

// Health 서비스가 실행 중인지 확인합니다.
func (s *Service) Health() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return ErrNotRunning
	}
	return nil
}
