package notifysvc

import (
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/itchub/itchub/core"
	"github.com/itchub/itchub/core/calendar"
)

const queueSize = 64

type (
	// Sender is implemented by *tgbotapi.BotAPI.
	Sender interface {
		Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	}

	// ChatFunc returns the chat notifications of team `teamID` go to; 0 means none.
	ChatFunc func(teamID string) int64

	// TelegramNotifier posts notifications to a Telegram chat.
	// Notify never blocks: messages are sent in the background and dropped when the queue is full.
	TelegramNotifier struct {
		bot    Sender
		chats  ChatFunc
		logger core.Logger

		queue     chan tgbotapi.MessageConfig
		wg        sync.WaitGroup
		mu        sync.RWMutex
		closed    bool
		closeOnce sync.Once
	}
)

var _ calendar.Notifier = (*TelegramNotifier)(nil)

func NewTelegramBot(conf *core.Config) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(conf.Telegram.Token)
}

func NewTelegramNotifier(bot Sender, chats ChatFunc, logger core.Logger) *TelegramNotifier {
	n := &TelegramNotifier{
		bot:    bot,
		chats:  chats,
		logger: logger,
		queue:  make(chan tgbotapi.MessageConfig, queueSize),
	}
	n.wg.Add(1)
	go n.run()
	return n
}

func (n *TelegramNotifier) run() {
	defer n.wg.Done()
	for msg := range n.queue {
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Error(fmt.Sprintf("sending telegram notification: %v", err), err)
		}
	}
}

func formatMessage(ntf calendar.Notification) string {
	icon := "📅"
	if ntf.IsFailure() {
		icon = "⚠️"
	}
	if ntf.Description == "" {
		return icon + " " + ntf.Title
	}
	return icon + " " + ntf.Title + "\n" + ntf.Description
}

func (n *TelegramNotifier) Notify(ntf calendar.Notification) {
	chatID := n.chats(ntf.TeamID)
	if chatID == 0 {
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}
	select {
	case n.queue <- tgbotapi.NewMessage(chatID, formatMessage(ntf)):
	default:
		n.logger.Warn("telegram notification queue full, dropping message", map[string]interface{}{"team_id": ntf.TeamID})
	}
}

// Close stops accepting notifications and waits for the queued ones to be sent.
func (n *TelegramNotifier) Close() {
	n.closeOnce.Do(func() {
		n.mu.Lock()
		n.closed = true
		close(n.queue)
		n.mu.Unlock()
	})
	n.wg.Wait()
}
