package notification

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/pixiv-bookmark/internal/config"
	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
	applog "github.com/darkkaiser/pixiv-bookmark/pkg/log"
	"github.com/darkkaiser/pixiv-bookmark/pkg/strutil"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const (
	telegramQueueSize     = 32
	telegramClientTimeout = 30 * time.Second
	telegramRetryDelay    = 2 * time.Second
	telegramMaxAttempts   = 3
	telegramDrainTimeout  = 5 * time.Second

	// 텔레그램은 동일 채팅방에 초당 1건 정도를 권장합니다.
	telegramRateLimit = 1
	telegramRateBurst = 5
)

// botClient 테스트에서 교체할 수 있도록 tgbotapi.BotAPI 중 사용하는 메서드만 정의합니다.
type botClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// newTelegramBot 텔레그램 봇 API 클라이언트를 생성합니다. 생성 과정에서 getMe API로 토큰을 확인합니다.
func newTelegramBot(cfg config.TelegramConfig, debug bool) (botClient, error) {
	applog.WithComponentAndFields(component, applog.Fields{
		"notifier_id": cfg.ID,
		"bot_token":   strutil.Mask(cfg.BotToken),
		"chat_id":     cfg.ChatID,
	}).Debug("텔레그램 봇 클라이언트 초기화")

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, &http.Client{Timeout: telegramClientTimeout})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("텔레그램 봇 API 클라이언트(%s) 초기화에 실패했습니다. BotToken이 올바른지 확인해주세요", cfg.ID))
	}
	bot.Debug = debug

	return bot, nil
}

type telegramMessage struct {
	ctx   context.Context
	title string
	body  string
}

// telegramNotifier 알림을 대기열에 넣고 Run 고루틴이 속도 제한에 맞춰 전송합니다.
type telegramNotifier struct {
	id     string
	chatID int64

	bot        botClient
	limiter    *rate.Limiter
	retryDelay time.Duration

	queue chan telegramMessage

	mu     sync.RWMutex
	closed bool
}

func newTelegramNotifier(id string, chatID int64, bot botClient) *telegramNotifier {
	return &telegramNotifier{
		id:         id,
		chatID:     chatID,
		bot:        bot,
		limiter:    rate.NewLimiter(rate.Limit(telegramRateLimit), telegramRateBurst),
		retryDelay: telegramRetryDelay,
		queue:      make(chan telegramMessage, telegramQueueSize),
	}
}

func (n *telegramNotifier) ID() string {
	return n.id
}

// Show 알림을 대기열에 넣습니다. 대기열이 가득 차 있으면 기다리지 않고 ErrQueueFull을 반환합니다.
func (n *telegramNotifier) Show(ctx context.Context, title, body string) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return ErrClosed
	}

	select {
	case n.queue <- telegramMessage{ctx: context.WithoutCancel(ctx), title: title, body: body}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (n *telegramNotifier) Run(ctx context.Context) {
	for {
		select {
		case m := <-n.queue:
			// 종료 신호와 대기열이 동시에 준비되면 select는 임의로 선택하므로, 꺼낸 알림은 drain에서 전송한다.
			if ctx.Err() != nil {
				n.close()
				n.drain(m)
				return
			}
			n.sendSafely(ctx, m)

		case <-ctx.Done():
			n.close()
			n.drain()
			return
		}
	}
}

func (n *telegramNotifier) close() {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
}

// drain 종료 시점에 pending과 대기열에 남은 알림을 제한 시간 안에서 전송합니다.
func (n *telegramNotifier) drain(pending ...telegramMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), telegramDrainTimeout)
	defer cancel()

	for _, m := range pending {
		n.sendSafely(ctx, m)
	}

	for {
		select {
		case m := <-n.queue:
			if ctx.Err() != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"notifier_id": n.id,
					"remaining":   len(n.queue) + 1,
				}).Warn("종료 대기 시간이 초과되어 남은 알림을 폐기합니다")
				return
			}
			n.sendSafely(ctx, m)

		default:
			return
		}
	}
}

func (n *telegramNotifier) sendSafely(ctx context.Context, m telegramMessage) {
	defer func() {
		if r := recover(); r != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"notifier_id": n.id,
				"panic":       r,
			}).Error("텔레그램 알림 전송 중 panic이 발생했습니다 (해당 건 스킵)")
		}
	}()

	if err := n.send(ctx, formatTelegramMessage(m.title, m.body)); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"notifier_id": n.id,
			"chat_id":     n.chatID,
			"error":       err,
		}).WithContext(m.ctx).Warn("텔레그램 알림 전송에 실패했습니다")
	}
}

func formatTelegramMessage(title, body string) string {
	return "<b>" + html.EscapeString(title) + "</b>\n" + html.EscapeString(body)
}

// send 속도 제한을 지키며 메시지를 전송합니다. 429와 5xx 응답은 재시도합니다.
func (n *telegramNotifier) send(ctx context.Context, text string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	var lastErr error
	for attempt := 1; attempt <= telegramMaxAttempts; attempt++ {
		_, err := n.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err

		code, retryAfter := telegramErrorCode(err)
		if !retryable(code) || attempt == telegramMaxAttempts {
			break
		}

		wait := n.retryDelay
		if retryAfter > 0 {
			wait = time.Duration(retryAfter) * time.Second
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return apperrors.Wrap(lastErr, apperrors.ExecutionFailed, "텔레그램 메시지 전송에 실패했습니다")
}

func telegramErrorCode(err error) (code int, retryAfter int) {
	if apiErr, ok := err.(tgbotapi.Error); ok {
		return apiErr.Code, apiErr.ResponseParameters.RetryAfter
	}
	if apiErr, ok := err.(*tgbotapi.Error); ok {
		return apiErr.Code, apiErr.ResponseParameters.RetryAfter
	}
	return 0, 0
}

// retryable 429를 제외한 4xx는 요청 자체의 문제이므로 재시도하지 않습니다.
func retryable(code int) bool {
	if code >= 400 && code < 500 {
		return code == http.StatusTooManyRequests
	}
	return true
}
