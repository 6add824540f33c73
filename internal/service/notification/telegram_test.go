package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/pixiv-bookmark/internal/pkg/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestTelegramNotifier(bot botClient) *telegramNotifier {
	n := newTelegramNotifier("tg", 12345, bot)
	n.limiter = rate.NewLimiter(rate.Inf, 1)
	n.retryDelay = time.Millisecond
	return n
}

func TestFormatTelegramMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"<b>Adding artwork to bookmarks</b>\n&lt;Sunset&gt; byA&amp;B",
		formatTelegramMessage("Adding artwork to bookmarks", "<Sunset> byA&B"),
	)
}

func TestTelegramNotifier_ShowAndRun(t *testing.T) {
	bot := &mockBot{}
	bot.On("Send", mock.MatchedBy(func(c tgbotapi.MessageConfig) bool {
		return c.ChatID == 12345 && c.ParseMode == tgbotapi.ModeHTML
	})).Return(tgbotapi.Message{}, nil)

	n := newTestTelegramNotifier(bot)

	require.NoError(t, n.Show(context.Background(), "Adding artwork to bookmarks", "Sunset byAlice"))

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		n.Run(ctx)
	}()

	assert.Eventually(t, func() bool { return len(bot.sentTexts()) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	wg.Wait()

	assert.Equal(t, []string{"<b>Adding artwork to bookmarks</b>\nSunset byAlice"}, bot.sentTexts())
	assert.ErrorIs(t, n.Show(context.Background(), "t", "b"), ErrClosed)
}

func TestTelegramNotifier_QueueFull(t *testing.T) {
	t.Parallel()

	n := newTestTelegramNotifier(&mockBot{})

	for i := 0; i < telegramQueueSize; i++ {
		require.NoError(t, n.Show(context.Background(), "t", "b"))
	}

	err := n.Show(context.Background(), "t", "b")
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.True(t, apperrors.Is(err, apperrors.Unavailable))
}

func TestTelegramNotifier_DrainOnShutdown(t *testing.T) {
	// 취소된 상태로 Run을 시작하면 select가 대기열과 종료 신호 중 임의로 선택하므로 여러 번 반복해 확인합니다.
	for i := 0; i < 100; i++ {
		bot := &mockBot{}
		bot.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

		n := newTestTelegramNotifier(bot)
		for j := 0; j < 3; j++ {
			require.NoError(t, n.Show(context.Background(), "t", "b"))
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		n.Run(ctx)

		require.Len(t, bot.sentTexts(), 3, "반복 %d회차", i)
		assert.Empty(t, n.queue)
	}
}

func TestTelegramNotifier_DrainSingleNoticeOnShutdown(t *testing.T) {
	for i := 0; i < 200; i++ {
		bot := &mockBot{}
		bot.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

		n := newTestTelegramNotifier(bot)
		require.NoError(t, n.Show(context.Background(), "Adding artwork to bookmarks", "Sunset byAlice"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		n.Run(ctx)

		require.Equal(t, []string{"<b>Adding artwork to bookmarks</b>\nSunset byAlice"}, bot.sentTexts(), "반복 %d회차", i)
		assert.ErrorIs(t, n.Show(context.Background(), "t", "b"), ErrClosed)
	}
}

func TestTelegramNotifier_SendRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{"성공", []error{nil}, 1, false},
		{"429 후 성공", []error{&tgbotapi.Error{Code: 429, Message: "Too Many Requests"}, nil}, 2, false},
		{"5xx 재시도 후 실패", []error{tgbotapi.Error{Code: 502}, tgbotapi.Error{Code: 502}, tgbotapi.Error{Code: 502}}, 3, true},
		{"400은 재시도하지 않음", []error{&tgbotapi.Error{Code: 400, Message: "Bad Request"}}, 1, true},
		{"네트워크 오류 재시도", []error{errors.New("timeout"), nil}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bot := &mockBot{}
			for _, e := range tt.errs {
				bot.On("Send", mock.Anything).Return(tgbotapi.Message{}, e).Once()
			}

			n := newTestTelegramNotifier(bot)
			err := n.send(context.Background(), "text")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			bot.AssertNumberOfCalls(t, "Send", tt.wantCalls)
		})
	}
}

func TestTelegramNotifier_SendCanceledDuringRetryWait(t *testing.T) {
	t.Parallel()

	bot := &mockBot{}
	bot.On("Send", mock.Anything).Return(tgbotapi.Message{}, &tgbotapi.Error{Code: 429, ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 60}}).Once()

	n := newTestTelegramNotifier(bot)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := n.send(ctx, "text")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	bot.AssertNumberOfCalls(t, "Send", 1)
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, retryable(0))
	assert.True(t, retryable(429))
	assert.True(t, retryable(500))
	assert.False(t, retryable(400))
	assert.False(t, retryable(403))
}
