package notification

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

type mockBot struct {
	mock.Mock

	mu    sync.Mutex
	texts []string
}

func (m *mockBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.mu.Lock()
		m.texts = append(m.texts, msg.Text)
		m.mu.Unlock()
	}

	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

// sentTexts Send로 전달된 메시지 본문 목록 (전송 실패 건 포함)
func (m *mockBot) sentTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.texts...)
}
