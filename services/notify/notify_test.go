package notifysvc

import (
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchub/itchub/core/calendar"
	"github.com/itchub/itchub/tests"
)

type botMock struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (b *botMock) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return tgbotapi.Message{}, b.err
	}
	b.sent = append(b.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

var (
	created = calendar.Notification{TeamID: "t1", Title: "Event Created", Description: "Sprint Review", Variant: calendar.VariantDefault}
	failed  = calendar.Notification{TeamID: "t2", Title: "Failed to delete event", Description: "event not found", Variant: calendar.VariantDestructive}
)

func TestLogNotifier(t *testing.T) {
	logger := new(testutil.Logger)
	n := NewLogNotifier(logger)
	n.Notify(created)
	n.Notify(failed)

	assert.Equal(t, []string{"info", "warn"}, logger.Levels())
	assert.Equal(t, "Event Created", logger.Entries[0].Msg)
}

func TestMulti(t *testing.T) {
	var got []string
	rec := calendar.NotifierFunc(func(n calendar.Notification) { got = append(got, n.Title) })

	Multi{rec, nil, rec}.Notify(created)
	assert.Equal(t, []string{"Event Created", "Event Created"}, got)
}

func TestTelegramNotifier(t *testing.T) {
	bot := new(botMock)
	chats := func(teamID string) int64 {
		if teamID == "t1" {
			return 42
		}
		return 0
	}
	n := NewTelegramNotifier(bot, chats, new(testutil.Logger))

	n.Notify(created)
	n.Notify(failed) // team without chat
	n.Close()
	n.Notify(created) // closed

	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(42), bot.sent[0].ChatID)
	assert.Equal(t, "📅 Event Created\nSprint Review", bot.sent[0].Text)
}

func TestTelegramNotifier_sendError(t *testing.T) {
	bot := &botMock{err: errors.New("chat not found")}
	logger := new(testutil.Logger)
	n := NewTelegramNotifier(bot, func(string) int64 { return 1 }, logger)

	n.Notify(failed)
	n.Close()

	assert.Equal(t, []string{"error"}, logger.Levels())
	assert.Equal(t, "⚠️ Failed to delete event\nevent not found", formatMessage(failed))
}
